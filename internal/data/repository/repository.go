package repository

import (
	"campus-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Session SessionRepository
	Room    RoomRepository
	Module  ModuleRepository
	Group   GroupRepository
	Booking BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		Room:    NewRoomRepository(db, log),
		Module:  NewModuleRepository(db, log),
		Group:   NewGroupRepository(db, log),
		Booking: NewBookingRepository(db, log),
	}
}
