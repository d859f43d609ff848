package repository

import (
	"context"
	"errors"
	"fmt"

	"campus-booking/internal/data/entity"
	"campus-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ModuleRepository interface {
	FindByName(ctx context.Context, name string) (*entity.Module, error)
}

type GroupRepository interface {
	FindByName(ctx context.Context, name string) (*entity.Group, error)
}

type moduleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewModuleRepository(db database.PgxIface, log *zap.Logger) ModuleRepository {
	return &moduleRepository{
		db:  db,
		log: log.With(zap.String("repository", "module")),
	}
}

func (r *moduleRepository) FindByName(ctx context.Context, name string) (*entity.Module, error) {
	query := `
		SELECT id, module_name, created_at, updated_at
		FROM modules
		WHERE module_name = $1`

	var module entity.Module
	err := r.db.QueryRow(ctx, query, name).Scan(
		&module.ID,
		&module.ModuleName,
		&module.CreatedAt,
		&module.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find module by name", zap.Error(err), zap.String("module_name", name))
		return nil, fmt.Errorf("find module %s: %w", name, err)
	}
	return &module, nil
}

type groupRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewGroupRepository(db database.PgxIface, log *zap.Logger) GroupRepository {
	return &groupRepository{
		db:  db,
		log: log.With(zap.String("repository", "group")),
	}
}

func (r *groupRepository) FindByName(ctx context.Context, name string) (*entity.Group, error) {
	query := `
		SELECT id, group_name, created_at, updated_at
		FROM groups
		WHERE group_name = $1`

	var group entity.Group
	err := r.db.QueryRow(ctx, query, name).Scan(
		&group.ID,
		&group.GroupName,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find group by name", zap.Error(err), zap.String("group_name", name))
		return nil, fmt.Errorf("find group %s: %w", name, err)
	}
	return &group, nil
}
