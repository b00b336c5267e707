package application

import (
	"context"
	"errors"
	"time"

	"github.com/linskybing/nominate-go/internal/api/middleware"
	"github.com/linskybing/nominate-go/internal/config"
	"github.com/linskybing/nominate-go/internal/domain/user"
	"github.com/linskybing/nominate-go/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPasswordHashFailure = errors.New("failed to hash password")
	ErrUsernameTaken       = errors.New("username already taken")
)

const tokenTTL = 24 * time.Hour

type UserService struct {
	Repos *repository.Repos
}

func NewUserService(repos *repository.Repos) *UserService {
	return &UserService{
		Repos: repos,
	}
}

func (s *UserService) RegisterUser(ctx context.Context, input user.CreateUserInput) error {
	_, err := s.Repos.User.GetUserByUsername(ctx, input.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil {
		return ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return ErrPasswordHashFailure
	}

	usr := user.User{
		Username: input.Username,
		Password: string(hashed),
		Email:    input.Email,
		FullName: input.FullName,
		IsAdmin:  input.Username == config.AdminUsername,
	}
	return s.Repos.User.SaveUser(ctx, &usr)
}

func (s *UserService) LoginUser(ctx context.Context, username, password string) (user.User, string, bool, error) {
	usr, err := s.Repos.User.GetUserByUsername(ctx, username)
	if err != nil {
		return user.User{}, "", false, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.Password), []byte(password)); err != nil {
		return user.User{}, "", false, ErrInvalidCredentials
	}

	isAdmin := usr.IsAdmin || usr.Username == config.AdminUsername
	token, err := middleware.GenerateToken(usr.UID, usr.Username, isAdmin, tokenTTL)
	if err != nil {
		return user.User{}, "", false, err
	}
	return usr, token, isAdmin, nil
}

func (s *UserService) FindUserByID(ctx context.Context, id uint) (user.User, error) {
	usr, err := s.Repos.User.GetUserByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user.User{}, ErrUserNotFound
	}
	return usr, err
}
