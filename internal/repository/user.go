package repository

import (
	"context"

	"github.com/linskybing/nominate-go/internal/domain/user"
	"gorm.io/gorm"
)

type UserRepo interface {
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
	GetUserByID(ctx context.Context, id uint) (user.User, error)
	SaveUser(ctx context.Context, u *user.User) error
	WithTx(tx *gorm.DB) UserRepo
}

type DBUserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *DBUserRepo {
	return &DBUserRepo{
		db: db,
	}
}

func (r *DBUserRepo) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return u, err
	}
	return u, nil
}

func (r *DBUserRepo) GetUserByID(ctx context.Context, id uint) (user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).Where("u_id = ?", id).First(&u).Error; err != nil {
		return u, err
	}
	return u, nil
}

func (r *DBUserRepo) SaveUser(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *DBUserRepo) WithTx(tx *gorm.DB) UserRepo {
	if tx == nil {
		return r
	}
	return &DBUserRepo{
		db: tx,
	}
}
