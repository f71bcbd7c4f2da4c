package store

import (
	"bitwise74/auth-api/internal/model"
	"bitwise74/auth-api/pkg/apierr"
	"context"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

const (
	idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	idLength  = 16
)

// GormStore is a Store backed by any database gorm can talk to
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormStore) first(ctx context.Context, query string, arg any) (*model.User, error) {
	var user model.User

	err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to fetch user, %w", err)
	}

	return &user, nil
}

func (s *GormStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64

	err := s.db.WithContext(ctx).
		Model(model.User{}).
		Where("email = ?", email).
		Count(&n).
		Error
	if err != nil {
		return false, fmt.Errorf("failed to check if user exists, %w", err)
	}

	return n > 0, nil
}

func (s *GormStore) Create(ctx context.Context, u *model.User) (*model.User, error) {
	found, err := s.ExistsByEmail(ctx, u.Email)
	if err != nil {
		return nil, err
	}

	if found {
		return nil, apierr.ErrUserAlreadyExists
	}

	if u.ID == "" {
		u.ID, err = gonanoid.Generate(idCharset, idLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate user ID, %w", err)
		}
	}

	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.ErrUserAlreadyExists
		}

		return nil, fmt.Errorf("failed to create user, %w", err)
	}

	return u, nil
}

func (s *GormStore) Save(ctx context.Context, u *model.User) (*model.User, error) {
	if u.ID == "" {
		return s.Create(ctx, u)
	}

	prev := u.Version
	next := *u
	next.Version = prev + 1

	r := s.db.WithContext(ctx).
		Model(&model.User{ID: u.ID}).
		Where("version = ?", prev).
		Select("*").
		Omit("ID", "CreatedAt").
		Updates(&next)
	if r.Error != nil {
		if errors.Is(r.Error, gorm.ErrDuplicatedKey) {
			return nil, apierr.ErrUserAlreadyExists
		}

		return nil, fmt.Errorf("failed to save user, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		if _, err := s.FindByID(ctx, u.ID); err != nil {
			if errors.Is(err, apierr.ErrUserNotFound) {
				return s.Create(ctx, u)
			}

			return nil, err
		}

		return nil, apierr.ErrVersionConflict
	}

	u.Version = next.Version
	u.UpdatedAt = next.UpdatedAt

	return u, nil
}

func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var n int64

	if err := s.db.WithContext(ctx).Model(model.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users, %w", err)
	}

	return n, nil
}
