package repository

import (
	"context"

	"github.com/linskybing/nominate-go/internal/domain/nomination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DraftRepo interface {
	Get(ctx context.Context, userID uint, categoryID string) (*nomination.Draft, error)
	Save(ctx context.Context, d *nomination.Draft) error
	Delete(ctx context.Context, userID uint, categoryID string) error
	WithTx(tx *gorm.DB) DraftRepo
}

type DBDraftRepo struct {
	db *gorm.DB
}

func NewDraftRepo(db *gorm.DB) *DBDraftRepo {
	return &DBDraftRepo{db: db}
}

func (r *DBDraftRepo) Get(ctx context.Context, userID uint, categoryID string) (*nomination.Draft, error) {
	var d nomination.Draft
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Save upserts the draft keyed by (user, category); last writer wins.
func (r *DBDraftRepo) Save(ctx context.Context, d *nomination.Draft) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "category_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"responses", "last_saved_at"}),
	}).Create(d).Error
}

func (r *DBDraftRepo) Delete(ctx context.Context, userID uint, categoryID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Delete(&nomination.Draft{}).Error
}

func (r *DBDraftRepo) WithTx(tx *gorm.DB) DraftRepo {
	if tx == nil {
		return r
	}
	return &DBDraftRepo{db: tx}
}
