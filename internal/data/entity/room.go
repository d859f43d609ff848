package entity

import "github.com/google/uuid"

type RoomStatus string

const (
	RoomStatusActive   RoomStatus = "active"
	RoomStatusInactive RoomStatus = "inactive"
)

type Room struct {
	Base
	RoomName     string     `db:"room_name"`
	RoomBuilding *uuid.UUID `db:"room_building"`
	RoomFloor    *int       `db:"room_floor"`
	Capacity     int        `db:"capacity"`
	Status       RoomStatus `db:"status"`
}
