package favoris

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Add(ctx context.Context, f *Favori) error
	Remove(ctx context.Context, userID, trajetID uuid.UUID) (bool, error)
	Exists(ctx context.Context, userID, trajetID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Favori, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Add(ctx context.Context, f *Favori) error {
	return r.db.WithContext(ctx).Create(f).Error
}

// Remove reports whether a row was deleted
func (r *repository) Remove(ctx context.Context, userID, trajetID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND trajet_id = ?", userID, trajetID).
		Delete(&Favori{})
	return result.RowsAffected > 0, result.Error
}

func (r *repository) Exists(ctx context.Context, userID, trajetID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Favori{}).
		Where("user_id = ? AND trajet_id = ?", userID, trajetID).
		Count(&n).Error
	return n > 0, err
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Favori, error) {
	var out []Favori
	err := r.db.WithContext(ctx).
		Preload("Trajet").Preload("Trajet.Compagnie").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}
