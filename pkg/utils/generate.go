package utils

import (
	"github.com/google/uuid"
)

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

// GenerateToken returns an opaque random token, used for lock ownership.
func GenerateToken() string {
	return uuid.NewString()
}

// ParseOptionalUUID treats an empty string as absent.
func ParseOptionalUUID(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
