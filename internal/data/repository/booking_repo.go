package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-booking/internal/data/entity"
	"campus-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrSlotTaken is returned when an insert hits an already confirmed
// (room, date, weekday) slot.
var ErrSlotTaken = errors.New("booking slot already taken")

type BookingRepository interface {
	// CreateBatch inserts all bookings in one transaction or none of them.
	CreateBatch(ctx context.Context, bookings []entity.Booking) error
	// CreateBatchSkipExisting inserts in one transaction, skipping rows whose
	// slot is already confirmed, and returns how many rows were written.
	CreateBatchSkipExisting(ctx context.Context, bookings []entity.Booking) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error)
	CountAll(ctx context.Context) (int64, error)
	FindUpcoming(ctx context.Context, from time.Time, limit, offset int) ([]*entity.Booking, error)
	CountUpcoming(ctx context.Context, from time.Time) (int64, error)

	// Availability queries
	ExistsConfirmed(ctx context.Context, room uuid.UUID, date time.Time, day *int) (bool, error)
	FindConfirmedByRoomAndDate(ctx context.Context, room uuid.UUID, date time.Time) ([]*entity.Booking, error)
	FindConfirmedByRoomBetween(ctx context.Context, room uuid.UUID, from, to time.Time) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, user_id, all_authorized, room, module_id, group_id,
		       activity_name, activity_description, activity_recurrence,
		       activity_starting_date, activity_ending_date, activity_day,
		       activity_time, activity_recurring_date, additional_info, status, added_on`

const insertBooking = `
		INSERT INTO bookings (id, user_id, all_authorized, room, module_id, group_id,
		                      activity_name, activity_description, activity_recurrence,
		                      activity_starting_date, activity_ending_date, activity_day,
		                      activity_time, activity_recurring_date, additional_info, status, added_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

func insertArgs(b *entity.Booking) []any {
	return []any{
		b.ID,
		b.UserID,
		b.AllAuthorized,
		b.Room,
		b.ModuleID,
		b.GroupID,
		b.Activity.Name,
		b.Activity.Description,
		string(b.Activity.Recurrence),
		b.Activity.StartingDate,
		b.Activity.EndingDate,
		b.Activity.Day,
		b.Activity.Time,
		b.Activity.RecurringDate,
		b.AdditionalInfo,
		string(b.Status),
		b.AddedOn,
	}
}

func (r *bookingRepository) CreateBatch(ctx context.Context, bookings []entity.Booking) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		for i := range bookings {
			if _, err := tx.Exec(ctx, insertBooking, insertArgs(&bookings[i])...); err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("insert booking for %s: %w",
						bookings[i].Activity.RecurringDate.Format(time.DateOnly), ErrSlotTaken)
				}
				return fmt.Errorf("insert booking %s: %w", bookings[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			r.log.Warn("Booking batch rejected, slot taken", zap.Error(err), zap.Int("count", len(bookings)))
		} else {
			r.log.Error("Failed to create booking batch", zap.Error(err), zap.Int("count", len(bookings)))
		}
		return fmt.Errorf("create booking batch: %w", err)
	}
	return nil
}

func (r *bookingRepository) CreateBatchSkipExisting(ctx context.Context, bookings []entity.Booking) (int64, error) {
	query := insertBooking + `
		ON CONFLICT DO NOTHING`

	var inserted int64
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		for i := range bookings {
			tag, err := tx.Exec(ctx, query, insertArgs(&bookings[i])...)
			if err != nil {
				return fmt.Errorf("insert booking %s: %w", bookings[i].ID, err)
			}
			inserted += tag.RowsAffected()
		}
		return nil
	})
	if err != nil {
		r.log.Error("Failed to import booking batch", zap.Error(err), zap.Int("count", len(bookings)))
		return 0, fmt.Errorf("import booking batch: %w", err)
	}
	return inserted, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}
	return booking, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY added_on DESC, activity_recurring_date
		LIMIT $1 OFFSET $2`

	return r.list(ctx, "find all bookings", query, limit, offset)
}

func (r *bookingRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&total); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return total, nil
}

func (r *bookingRepository) FindUpcoming(ctx context.Context, from time.Time, limit, offset int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'confirmed' AND activity_starting_date >= $1
		ORDER BY activity_recurring_date, added_on
		LIMIT $2 OFFSET $3`

	return r.list(ctx, "find upcoming bookings", query, from, limit, offset)
}

func (r *bookingRepository) CountUpcoming(ctx context.Context, from time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE status = 'confirmed' AND activity_starting_date >= $1`

	var total int64
	if err := r.db.QueryRow(ctx, query, from).Scan(&total); err != nil {
		r.log.Error("Failed to count upcoming bookings", zap.Error(err))
		return 0, fmt.Errorf("count upcoming bookings: %w", err)
	}
	return total, nil
}

// ExistsConfirmed matches a nil day against bookings without a weekday tag.
func (r *bookingRepository) ExistsConfirmed(ctx context.Context, room uuid.UUID, date time.Time, day *int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE room = $1
			  AND activity_recurring_date = $2
			  AND activity_day IS NOT DISTINCT FROM $3
			  AND status = 'confirmed'
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, room, date, day).Scan(&exists); err != nil {
		r.log.Error("Failed to check booking slot",
			zap.Error(err),
			zap.String("room", room.String()),
			zap.String("date", date.Format(time.DateOnly)),
		)
		return false, fmt.Errorf("check slot of room %s on %s: %w", room, date.Format(time.DateOnly), err)
	}
	return exists, nil
}

func (r *bookingRepository) FindConfirmedByRoomAndDate(ctx context.Context, room uuid.UUID, date time.Time) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE room = $1 AND activity_recurring_date = $2 AND status = 'confirmed'
		ORDER BY added_on`

	return r.list(ctx, "find room bookings by date", query, room, date)
}

func (r *bookingRepository) FindConfirmedByRoomBetween(ctx context.Context, room uuid.UUID, from, to time.Time) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE room = $1
		  AND activity_recurring_date BETWEEN $2 AND $3
		  AND status = 'confirmed'
		ORDER BY activity_recurring_date, added_on`

	return r.list(ctx, "find room bookings in range", query, room, from, to)
}

func (r *bookingRepository) list(ctx context.Context, operation, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to "+operation, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking", zap.Error(err), zap.String("operation", operation))
			return nil, fmt.Errorf("%s: scan: %w", operation, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", operation, err)
	}
	return bookings, nil
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.AllAuthorized,
		&b.Room,
		&b.ModuleID,
		&b.GroupID,
		&b.Activity.Name,
		&b.Activity.Description,
		&b.Activity.Recurrence,
		&b.Activity.StartingDate,
		&b.Activity.EndingDate,
		&b.Activity.Day,
		&b.Activity.Time,
		&b.Activity.RecurringDate,
		&b.AdditionalInfo,
		&b.Status,
		&b.AddedOn,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
