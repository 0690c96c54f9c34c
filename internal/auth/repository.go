package auth

import (
	"context"
	"errors"

	"busbenin/internal/users"

	"gorm.io/gorm"
)

// Repository covers the credential side of profiles
type Repository interface {
	CreateProfile(ctx context.Context, profile *users.Profile) error
	GetProfileByEmail(ctx context.Context, email string) (*users.Profile, error)
	GetProfileByID(ctx context.Context, id string) (*users.Profile, error)
	UpdatePassword(ctx context.Context, profileID string, hashedPassword string) error
	EmailExists(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateProfile(ctx context.Context, profile *users.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *repository) GetProfileByEmail(ctx context.Context, email string) (*users.Profile, error) {
	var p users.Profile
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetProfileByID(ctx context.Context, id string) (*users.Profile, error) {
	var p users.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdatePassword(ctx context.Context, profileID string, hashedPassword string) error {
	result := r.db.WithContext(ctx).Model(&users.Profile{}).
		Where("id = ?", profileID).
		Update("password", hashedPassword)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&users.Profile{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
