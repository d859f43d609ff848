package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"campus-booking/internal/data/entity"
	"campus-booking/internal/data/repository"
	"campus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type slotKey struct {
	room uuid.UUID
	date time.Time
	day  int
}

func keyOf(b *entity.Booking) slotKey {
	k := slotKey{room: b.Room, date: b.Activity.RecurringDate}
	if b.Activity.Day != nil {
		k.day = *b.Activity.Day
	}
	return k
}

// mockBookingRepo keeps bookings in memory and enforces the confirmed slot
// uniqueness the database index provides.
type mockBookingRepo struct {
	mu       sync.Mutex
	bookings []entity.Booking
	checks   int
	// failInsert makes the next batch insert fail with the given error.
	failInsert error
}

func (m *mockBookingRepo) taken(k slotKey) bool {
	for i := range m.bookings {
		if m.bookings[i].Status == entity.BookingStatusConfirmed && keyOf(&m.bookings[i]) == k {
			return true
		}
	}
	return false
}

func (m *mockBookingRepo) CreateBatch(_ context.Context, bookings []entity.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failInsert; err != nil {
		m.failInsert = nil
		return err
	}
	seen := make(map[slotKey]bool)
	for i := range bookings {
		k := keyOf(&bookings[i])
		if m.taken(k) || seen[k] {
			return fmt.Errorf("create booking batch: %w", repository.ErrSlotTaken)
		}
		seen[k] = true
	}
	m.bookings = append(m.bookings, bookings...)
	return nil
}

func (m *mockBookingRepo) CreateBatchSkipExisting(_ context.Context, bookings []entity.Booking) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failInsert; err != nil {
		m.failInsert = nil
		return 0, err
	}
	var inserted int64
	for i := range bookings {
		if m.taken(keyOf(&bookings[i])) {
			continue
		}
		m.bookings = append(m.bookings, bookings[i])
		inserted++
	}
	return inserted, nil
}

func (m *mockBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			b := m.bookings[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (m *mockBookingRepo) filter(keep func(*entity.Booking) bool) []*entity.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Booking
	for i := range m.bookings {
		if keep(&m.bookings[i]) {
			b := m.bookings[i]
			out = append(out, &b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Activity.RecurringDate.Before(out[j].Activity.RecurringDate)
	})
	return out
}

func page(bookings []*entity.Booking, limit, offset int) []*entity.Booking {
	if offset >= len(bookings) {
		return nil
	}
	end := min(offset+limit, len(bookings))
	return bookings[offset:end]
}

func (m *mockBookingRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Booking, error) {
	return page(m.filter(func(*entity.Booking) bool { return true }), limit, offset), nil
}

func (m *mockBookingRepo) CountAll(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.bookings)), nil
}

func upcoming(from time.Time) func(*entity.Booking) bool {
	return func(b *entity.Booking) bool {
		return b.Status == entity.BookingStatusConfirmed && !b.Activity.StartingDate.Before(from)
	}
}

func (m *mockBookingRepo) FindUpcoming(_ context.Context, from time.Time, limit, offset int) ([]*entity.Booking, error) {
	return page(m.filter(upcoming(from)), limit, offset), nil
}

func (m *mockBookingRepo) CountUpcoming(_ context.Context, from time.Time) (int64, error) {
	return int64(len(m.filter(upcoming(from)))), nil
}

func (m *mockBookingRepo) ExistsConfirmed(_ context.Context, room uuid.UUID, date time.Time, day *int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks++
	k := slotKey{room: room, date: date}
	if day != nil {
		k.day = *day
	}
	return m.taken(k), nil
}

func (m *mockBookingRepo) FindConfirmedByRoomAndDate(_ context.Context, room uuid.UUID, date time.Time) ([]*entity.Booking, error) {
	return m.filter(func(b *entity.Booking) bool {
		return b.Status == entity.BookingStatusConfirmed && b.Room == room && b.Activity.RecurringDate.Equal(date)
	}), nil
}

func (m *mockBookingRepo) FindConfirmedByRoomBetween(_ context.Context, room uuid.UUID, from, to time.Time) ([]*entity.Booking, error) {
	return m.filter(func(b *entity.Booking) bool {
		d := b.Activity.RecurringDate
		return b.Status == entity.BookingStatusConfirmed && b.Room == room && !d.Before(from) && !d.After(to)
	}), nil
}

type mockRoomRepo struct {
	rooms []*entity.Room
}

func (m *mockRoomRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Room, error) {
	for _, r := range m.rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *mockRoomRepo) FindByName(_ context.Context, name string) (*entity.Room, error) {
	for _, r := range m.rooms {
		if r.RoomName == name {
			return r, nil
		}
	}
	return nil, nil
}

type mockModuleRepo struct {
	modules map[string]uuid.UUID
	lookups int
}

func (m *mockModuleRepo) FindByName(_ context.Context, name string) (*entity.Module, error) {
	m.lookups++
	id, ok := m.modules[name]
	if !ok {
		return nil, nil
	}
	return &entity.Module{BaseNoDelete: entity.BaseNoDelete{ID: id}, ModuleName: name}, nil
}

type mockGroupRepo struct {
	groups map[string]uuid.UUID
	err    error
}

func (m *mockGroupRepo) FindByName(_ context.Context, name string) (*entity.Group, error) {
	if m.err != nil {
		return nil, m.err
	}
	id, ok := m.groups[name]
	if !ok {
		return nil, nil
	}
	return &entity.Group{BaseNoDelete: entity.BaseNoDelete{ID: id}, GroupName: name}, nil
}

type mockUserRepo struct {
	users []*entity.User
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByFullname(_ context.Context, names ...string) (*entity.User, error) {
	for _, name := range names {
		for _, u := range m.users {
			if u.Fullname == name {
				return u, nil
			}
		}
	}
	return nil, nil
}

type fixture struct {
	repo     *repository.Repository
	bookings *mockBookingRepo
	rooms    *mockRoomRepo
	modules  *mockModuleRepo
	groups   *mockGroupRepo
	users    *mockUserRepo
	room     *entity.Room
	clock    Clock
}

func newFixture(now time.Time) *fixture {
	room := &entity.Room{Base: entity.Base{ID: uuid.New()}, RoomName: "A101", Capacity: 40, Status: entity.RoomStatusActive}
	f := &fixture{
		bookings: &mockBookingRepo{},
		rooms:    &mockRoomRepo{rooms: []*entity.Room{room}},
		modules:  &mockModuleRepo{modules: map[string]uuid.UUID{}},
		groups:   &mockGroupRepo{groups: map[string]uuid.UUID{}},
		users:    &mockUserRepo{},
		room:     room,
		clock:    Clock{Now: func() time.Time { return now }, Location: time.UTC},
	}
	f.repo = &repository.Repository{
		User:    f.users,
		Room:    f.rooms,
		Module:  f.modules,
		Group:   f.groups,
		Booking: f.bookings,
	}
	return f
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func testConfig() utils.ImportConfig {
	return utils.ImportConfig{MaxUploadBytes: 1 << 20, MinUploadBytes: 10, LockTTL: time.Minute}
}

var nopLog = zap.NewNop()
