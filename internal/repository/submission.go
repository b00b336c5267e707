package repository

import (
	"context"

	"github.com/linskybing/nominate-go/internal/domain/nomination"
	"gorm.io/gorm"
)

type SubmissionRepo interface {
	Create(ctx context.Context, s *nomination.Submission) error
	GetByID(ctx context.Context, id string) (*nomination.Submission, error)
	ListByCategory(ctx context.Context, categoryID string) ([]nomination.Submission, error)
	ListByUser(ctx context.Context, userID uint) ([]nomination.Submission, error)
	CountByCategory(ctx context.Context) ([]nomination.CategoryCount, error)
	UpdateStatus(ctx context.Context, id string, status nomination.ReviewStatus) error
	WithTx(tx *gorm.DB) SubmissionRepo
}

type DBSubmissionRepo struct {
	db *gorm.DB
}

func NewSubmissionRepo(db *gorm.DB) *DBSubmissionRepo {
	return &DBSubmissionRepo{db: db}
}

func (r *DBSubmissionRepo) Create(ctx context.Context, s *nomination.Submission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *DBSubmissionRepo) GetByID(ctx context.Context, id string) (*nomination.Submission, error) {
	var s nomination.Submission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *DBSubmissionRepo) ListByCategory(ctx context.Context, categoryID string) ([]nomination.Submission, error) {
	var subs []nomination.Submission
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("submitted_at asc").
		Find(&subs).Error
	return subs, err
}

func (r *DBSubmissionRepo) ListByUser(ctx context.Context, userID uint) ([]nomination.Submission, error) {
	var subs []nomination.Submission
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at desc").
		Find(&subs).Error
	return subs, err
}

func (r *DBSubmissionRepo) CountByCategory(ctx context.Context) ([]nomination.CategoryCount, error) {
	var counts []nomination.CategoryCount
	err := r.db.WithContext(ctx).
		Model(&nomination.Submission{}).
		Select("category_id, COUNT(*) AS count").
		Group("category_id").
		Scan(&counts).Error
	return counts, err
}

func (r *DBSubmissionRepo) UpdateStatus(ctx context.Context, id string, status nomination.ReviewStatus) error {
	res := r.db.WithContext(ctx).
		Model(&nomination.Submission{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DBSubmissionRepo) WithTx(tx *gorm.DB) SubmissionRepo {
	if tx == nil {
		return r
	}
	return &DBSubmissionRepo{db: tx}
}
