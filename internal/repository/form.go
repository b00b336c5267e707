package repository

import (
	"context"

	"github.com/linskybing/nominate-go/internal/domain/form"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FormRepo interface {
	Upsert(ctx context.Context, cfg *form.FormConfiguration) error
	GetByID(ctx context.Context, id string) (*form.FormConfiguration, error)
	List(ctx context.Context) ([]form.FormConfiguration, error)
	WithTx(tx *gorm.DB) FormRepo
}

type DBFormRepo struct {
	db *gorm.DB
}

func NewFormRepo(db *gorm.DB) *DBFormRepo {
	return &DBFormRepo{db: db}
}

// Upsert overwrites the whole document stored under cfg.ID.
func (r *DBFormRepo) Upsert(ctx context.Context, cfg *form.FormConfiguration) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"segment_name", "category_name", "description", "sections", "updated_at"}),
	}).Create(cfg).Error
}

func (r *DBFormRepo) GetByID(ctx context.Context, id string) (*form.FormConfiguration, error) {
	var cfg form.FormConfiguration
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *DBFormRepo) List(ctx context.Context) ([]form.FormConfiguration, error) {
	var cfgs []form.FormConfiguration
	err := r.db.WithContext(ctx).Order("category_name asc").Find(&cfgs).Error
	return cfgs, err
}

func (r *DBFormRepo) WithTx(tx *gorm.DB) FormRepo {
	if tx == nil {
		return r
	}
	return &DBFormRepo{db: tx}
}
