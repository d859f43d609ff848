package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"campus-booking/internal/data/repository"
	"campus-booking/internal/dto/request"
	"campus-booking/internal/dto/response"
	"campus-booking/internal/recurrence"
	"campus-booking/internal/timetable"
	"campus-booking/pkg/events"
	"campus-booking/pkg/redis"
	"campus-booking/pkg/storage"
	"campus-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ArtifactCSV  = "timetable_manip.csv"
	ArtifactJSON = "timetable_manip.json"

	importLockKey   = "timetable-import"
	previewRows     = 10
	defaultLockTTL  = 2 * time.Minute
	contentTypeCSV  = "text/csv"
	contentTypeJSON = "application/json"
)

// ImportDefaults holds the values a timetable export does not carry.
type ImportDefaults struct {
	RequesterID  *uuid.UUID
	RoomID       *uuid.UUID
	ActivityName string
	AlignWeekday bool
}

// NewImportDefaults parses the configured ids.
func NewImportDefaults(cfg utils.ImportConfig) (ImportDefaults, error) {
	requester, err := utils.ParseOptionalUUID(cfg.RequesterID)
	if err != nil {
		return ImportDefaults{}, fmt.Errorf("import requester id %q: %w", cfg.RequesterID, err)
	}
	room, err := utils.ParseOptionalUUID(cfg.RoomID)
	if err != nil {
		return ImportDefaults{}, fmt.Errorf("import room id %q: %w", cfg.RoomID, err)
	}
	return ImportDefaults{
		RequesterID:  requester,
		RoomID:       room,
		ActivityName: cfg.ActivityName,
		AlignWeekday: cfg.AlignWeekday,
	}, nil
}

type TimetableService interface {
	// Upload normalizes a timetable export and stores the cleaned CSV and JSON artifacts.
	Upload(ctx context.Context, file *request.UploadFile) (*response.UploadResponse, error)
	Preview(ctx context.Context) (*response.PreviewResponse, error)
	Download(ctx context.Context) ([]byte, error)
	// SaveTimetable turns the stored JSON artifact into confirmed bookings.
	// requester is used when no import requester is configured.
	SaveTimetable(ctx context.Context, requester uuid.UUID, req *request.SaveTimetableRequest) (*response.ImportResponse, error)
}

type timetableService struct {
	repo      *repository.Repository
	store     storage.ArtifactStore
	locker    redis.Locker
	publisher events.Publisher
	clock     Clock
	defaults  ImportDefaults
	limits    utils.ImportConfig
	log       *zap.Logger
}

func NewTimetableService(
	repo *repository.Repository,
	store storage.ArtifactStore,
	locker redis.Locker,
	publisher events.Publisher,
	clock Clock,
	defaults ImportDefaults,
	limits utils.ImportConfig,
	log *zap.Logger,
) TimetableService {
	if limits.LockTTL <= 0 {
		limits.LockTTL = defaultLockTTL
	}
	return &timetableService{
		repo:      repo,
		store:     store,
		locker:    locker,
		publisher: publisher,
		clock:     clock,
		defaults:  defaults,
		limits:    limits,
		log:       log.With(zap.String("service", "timetable")),
	}
}

type uploadKind int

const (
	kindCSV uploadKind = iota
	kindXLSX
)

func detectKind(file *request.UploadFile) (uploadKind, bool) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType := strings.ToLower(file.ContentType)
	switch {
	case ext == ".csv" || strings.HasPrefix(contentType, contentTypeCSV):
		return kindCSV, true
	case ext == ".xlsx" || strings.Contains(contentType, "spreadsheetml"):
		return kindXLSX, true
	}
	return 0, false
}

func (s *timetableService) Upload(ctx context.Context, file *request.UploadFile) (*response.UploadResponse, error) {
	if file == nil || file.Filename == "" {
		return nil, newValidationError("No file uploaded", nil)
	}
	kind, ok := detectKind(file)
	if !ok {
		return nil, newValidationError("File is not a csv", nil)
	}
	size := int64(len(file.Data))
	if size == 0 {
		return nil, newValidationError("File is empty", nil)
	}
	if s.limits.MaxUploadBytes > 0 && size > s.limits.MaxUploadBytes {
		return nil, newValidationError("File is too big", nil)
	}
	if size < s.limits.MinUploadBytes {
		return nil, newValidationError("File is too small", nil)
	}

	release, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var table timetable.Table
	if kind == kindXLSX {
		table, err = timetable.ReadXLSX(bytes.NewReader(file.Data))
	} else {
		table, err = timetable.ReadCSV(bytes.NewReader(file.Data))
	}
	if err != nil {
		s.log.Warn("Failed to parse timetable upload", zap.String("filename", file.Filename), zap.Error(err))
		return nil, newValidationError("File could not be parsed", map[string]string{"file": err.Error()})
	}

	cleaned, report := timetable.Normalize(table)

	var csvBuf, jsonBuf bytes.Buffer
	if err := cleaned.WriteCSV(&csvBuf); err != nil {
		return nil, fmt.Errorf("encode cleaned timetable: %w", err)
	}
	if err := cleaned.WriteJSON(&jsonBuf); err != nil {
		return nil, fmt.Errorf("encode cleaned timetable: %w", err)
	}
	if err := s.store.Put(ctx, ArtifactCSV, csvBuf.Bytes(), contentTypeCSV); err != nil {
		return nil, persistenceError("store "+ArtifactCSV, err)
	}
	if err := s.store.Put(ctx, ArtifactJSON, jsonBuf.Bytes(), contentTypeJSON); err != nil {
		return nil, persistenceError("store "+ArtifactJSON, err)
	}

	s.log.Info("Timetable uploaded",
		zap.String("filename", file.Filename),
		zap.Int("rows", report.Rows),
		zap.Int("merged_rows", report.MergedRows),
		zap.Strings("dropped_columns", report.DroppedColumns),
	)

	dropped := report.DroppedColumns
	if dropped == nil {
		dropped = []string{}
	}
	return &response.UploadResponse{
		Columns:        cleaned.Header,
		DroppedColumns: dropped,
		MergedRows:     report.MergedRows,
		Rows:           report.Rows,
	}, nil
}

func (s *timetableService) Preview(ctx context.Context) (*response.PreviewResponse, error) {
	data, err := s.artifact(ctx, ArtifactCSV)
	if err != nil {
		return nil, err
	}
	table, err := timetable.ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ArtifactCSV, err)
	}

	head := table.Head(previewRows)
	return &response.PreviewResponse{Columns: head.Header, Rows: head.Records()}, nil
}

func (s *timetableService) Download(ctx context.Context) ([]byte, error) {
	return s.artifact(ctx, ArtifactCSV)
}

func (s *timetableService) SaveTimetable(ctx context.Context, requester uuid.UUID, req *request.SaveTimetableRequest) (*response.ImportResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError("Invalid import request", errs)
	}
	anchor, err := recurrence.ParseDate(req.StartingDate)
	if err != nil {
		return nil, newValidationError("Invalid starting date", map[string]string{"starting_date": err.Error()})
	}

	requesterID := requester
	if s.defaults.RequesterID != nil {
		requesterID = *s.defaults.RequesterID
	}
	if requesterID == uuid.Nil {
		return nil, newValidationError("No requester for imported bookings", nil)
	}

	release, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	data, err := s.artifact(ctx, ArtifactJSON)
	if err != nil {
		return nil, err
	}
	records, err := timetable.ReadRecords(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ArtifactJSON, err)
	}

	result := &response.ImportResponse{Rows: len(records), Skipped: []timetable.Skipped{}}
	res := newResolver(s.repo, s.log)

	resolved := make([]timetable.Resolved, 0, len(records))
	for i, rec := range records {
		intent, err := timetable.ParseRecord(i+1, rec)
		if err != nil {
			result.Skipped = append(result.Skipped, timetable.Skipped{Row: i + 1, Reason: err.Error()})
			continue
		}
		resolved = append(resolved, res.resolve(ctx, intent))
	}
	result.Unresolved = res.unresolved

	bookings, skipped := timetable.BuildBookings(anchor, resolved, timetable.Defaults{
		RequesterID:  requesterID,
		RoomID:       s.defaults.RoomID,
		ActivityName: s.defaults.ActivityName,
		AlignWeekday: s.defaults.AlignWeekday,
	}, s.clock.Instant())
	result.Skipped = append(result.Skipped, skipped...)

	if len(bookings) > 0 {
		inserted, err := s.repo.Booking.CreateBatchSkipExisting(ctx, bookings)
		if err != nil {
			return nil, persistenceError("import bookings", err)
		}
		result.Created = inserted
		result.Existing = int64(len(bookings)) - inserted
	}

	s.log.Info("Timetable imported",
		zap.String("starting_date", req.StartingDate),
		zap.Int("rows", result.Rows),
		zap.Int64("created", result.Created),
		zap.Int64("existing", result.Existing),
		zap.Int("skipped", len(result.Skipped)),
	)

	if err := s.publisher.Publish(ctx, events.TopicTimetableImported, result); err != nil {
		s.log.Warn("Failed to publish timetable imported event", zap.Error(err))
	}

	return result, nil
}

func (s *timetableService) lock(ctx context.Context) (func(), error) {
	release, err := s.locker.Acquire(ctx, importLockKey, s.limits.LockTTL)
	if errors.Is(err, redis.ErrLocked) {
		return nil, ErrImportInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("acquire import lock: %w", err)
	}
	return func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn("Failed to release import lock", zap.Error(err))
		}
	}, nil
}

func (s *timetableService) artifact(ctx context.Context, name string) ([]byte, error) {
	data, err := s.store.Get(ctx, name)
	if errors.Is(err, storage.ErrArtifactNotFound) {
		return nil, fmt.Errorf("%s: %w", name, ErrArtifactMissing)
	}
	if err != nil {
		return nil, persistenceError("load "+name, err)
	}
	return data, nil
}

// resolver looks names up once per import. Lookup failures degrade to nil.
type resolver struct {
	repo       *repository.Repository
	log        *zap.Logger
	modules    map[string]*uuid.UUID
	rooms      map[string]*uuid.UUID
	staff      map[string]*uuid.UUID
	groups     map[string]*uuid.UUID
	unresolved response.UnresolvedCounts
}

func newResolver(repo *repository.Repository, log *zap.Logger) *resolver {
	return &resolver{
		repo:    repo,
		log:     log,
		modules: make(map[string]*uuid.UUID),
		rooms:   make(map[string]*uuid.UUID),
		staff:   make(map[string]*uuid.UUID),
		groups:  make(map[string]*uuid.UUID),
	}
}

func (r *resolver) resolve(ctx context.Context, intent timetable.Intent) timetable.Resolved {
	out := timetable.Resolved{Intent: intent}

	out.ModuleID = r.lookup(ctx, r.modules, "module", intent.Module, &r.unresolved.Modules,
		func(ctx context.Context, name string) (*uuid.UUID, error) {
			m, err := r.repo.Module.FindByName(ctx, name)
			if err != nil || m == nil {
				return nil, err
			}
			return &m.ID, nil
		})

	out.RoomID = r.lookup(ctx, r.rooms, "room", intent.RoomName, &r.unresolved.Rooms,
		func(ctx context.Context, name string) (*uuid.UUID, error) {
			room, err := r.repo.Room.FindByName(ctx, name)
			if err != nil || room == nil {
				return nil, err
			}
			return &room.ID, nil
		})

	if len(intent.StaffNames) > 0 {
		out.StaffID = r.lookup(ctx, r.staff, "staff", strings.Join(intent.StaffNames, "|"), &r.unresolved.Staff,
			func(ctx context.Context, _ string) (*uuid.UUID, error) {
				u, err := r.repo.User.FindByFullname(ctx, intent.StaffNames...)
				if err != nil || u == nil {
					return nil, err
				}
				return &u.ID, nil
			})
	}

	out.GroupID = r.lookup(ctx, r.groups, "group", intent.Group, &r.unresolved.Groups,
		func(ctx context.Context, name string) (*uuid.UUID, error) {
			g, err := r.repo.Group.FindByName(ctx, name)
			if err != nil || g == nil {
				return nil, err
			}
			return &g.ID, nil
		})

	return out
}

func (r *resolver) lookup(
	ctx context.Context,
	cache map[string]*uuid.UUID,
	kind, name string,
	misses *int,
	find func(context.Context, string) (*uuid.UUID, error),
) *uuid.UUID {
	if name == "" {
		return nil
	}
	if id, ok := cache[name]; ok {
		if id == nil {
			*misses++
		}
		return id
	}

	id, err := find(ctx, name)
	if err != nil {
		r.log.Warn("Lookup failed, leaving reference empty",
			zap.String("kind", kind),
			zap.String("name", name),
			zap.Error(err),
		)
		id = nil
	}
	if id == nil {
		r.log.Debug("Unresolved reference", zap.String("kind", kind), zap.String("name", name))
		*misses++
	}
	cache[name] = id
	return id
}
