package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/huddle/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserStore keeps registered accounts with bcrypt password hashes.
type UserStore struct {
	db   *gorm.DB
	cost int
}

// NewUserStore creates a store hashing with the given bcrypt cost;
// a cost of 0 means bcrypt.DefaultCost.
func NewUserStore(db *gorm.DB, cost int) *UserStore {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserStore{db: db, cost: cost}
}

func (s *UserStore) Register(ctx context.Context, username, password string) (domain.User, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return domain.User{}, err
	}
	if password == "" {
		return domain.User{}, domain.Required("password")
	}
	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&userRecord{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return domain.User{}, fmt.Errorf("%w: lookup user: %w", domain.ErrStorage, err)
	}
	if count > 0 {
		return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUserExists, username)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	rec := userRecord{Username: username, PasswordHash: string(hash)}
	if err := db.Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUserExists, username)
		}
		return domain.User{}, fmt.Errorf("%w: create user: %w", domain.ErrStorage, err)
	}
	return domain.User{ID: domain.UserID(rec.ID), Username: rec.Username}, nil
}

// Authenticate returns domain.ErrInvalidCredentials for an unknown user and
// for a wrong password alike.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	if username == "" || password == "" {
		return domain.User{}, domain.Required("username", "password")
	}
	var rec userRecord
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("%w: find user: %w", domain.ErrStorage, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return domain.User{ID: domain.UserID(rec.ID), Username: rec.Username}, nil
}
