package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/astrovows/starlight-backend/internal/logger"
	"github.com/astrovows/starlight-backend/internal/types"
)

type DedicationRepo interface {
	Create(ctx context.Context, row *types.Dedication) (*types.Dedication, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Dedication, error)
	ListRecent(ctx context.Context, limit int) ([]*types.Dedication, error)
}

type dedicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDedicationRepo(db *gorm.DB, baseLog *logger.Logger) DedicationRepo {
	return &dedicationRepo{db: db, log: baseLog.With("repo", "DedicationRepo")}
}

func (r *dedicationRepo) Create(ctx context.Context, row *types.Dedication) (*types.Dedication, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *dedicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*types.Dedication, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Dedication
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *dedicationRepo) ListRecent(ctx context.Context, limit int) ([]*types.Dedication, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var out []*types.Dedication
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
