package repository

import (
	"context"
	"errors"
	"fmt"

	"campus-booking/internal/data/entity"
	"campus-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RoomRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error)
	FindByName(ctx context.Context, name string) (*entity.Room, error)
}

type roomRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRoomRepository(db database.PgxIface, log *zap.Logger) RoomRepository {
	return &roomRepository{
		db:  db,
		log: log.With(zap.String("repository", "room")),
	}
}

const roomColumns = `id, room_name, room_building, room_floor, capacity, status, created_at, updated_at, deleted_at`

func (r *roomRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	query := `SELECT ` + roomColumns + `
		FROM rooms
		WHERE id = $1 AND deleted_at IS NULL`

	room, err := scanRoom(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find room by ID", zap.Error(err), zap.String("room_id", id.String()))
		return nil, fmt.Errorf("find room by ID %s: %w", id, err)
	}
	return room, nil
}

func (r *roomRepository) FindByName(ctx context.Context, name string) (*entity.Room, error) {
	query := `SELECT ` + roomColumns + `
		FROM rooms
		WHERE room_name = $1 AND deleted_at IS NULL`

	room, err := scanRoom(r.db.QueryRow(ctx, query, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find room by name", zap.Error(err), zap.String("room_name", name))
		return nil, fmt.Errorf("find room by name %s: %w", name, err)
	}
	return room, nil
}

func scanRoom(row pgx.Row) (*entity.Room, error) {
	var room entity.Room
	err := row.Scan(
		&room.ID,
		&room.RoomName,
		&room.RoomBuilding,
		&room.RoomFloor,
		&room.Capacity,
		&room.Status,
		&room.CreatedAt,
		&room.UpdatedAt,
		&room.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}
