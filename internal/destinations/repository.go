package destinations

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, d *Destination) error
	GetByID(ctx context.Context, id uuid.UUID) (*Destination, error)
	GetByNom(ctx context.Context, nom string) (*Destination, error)
	List(ctx context.Context) ([]Destination, error)
	UpdateNom(ctx context.Context, id uuid.UUID, nom string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, d *Destination) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Destination, error) {
	var d Destination
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDestinationNotFound
		}
		return nil, err
	}
	return &d, nil
}

// GetByNom matches case-insensitively
func (r *repository) GetByNom(ctx context.Context, nom string) (*Destination, error) {
	var d Destination
	err := r.db.WithContext(ctx).Where("LOWER(nom) = ?", strings.ToLower(nom)).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDestinationNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *repository) List(ctx context.Context) ([]Destination, error) {
	var out []Destination
	err := r.db.WithContext(ctx).Order("nom ASC").Find(&out).Error
	return out, err
}

func (r *repository) UpdateNom(ctx context.Context, id uuid.UUID, nom string) error {
	return r.db.WithContext(ctx).Model(&Destination{}).Where("id = ?", id).Update("nom", nom).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Destination{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDestinationNotFound
	}
	return nil
}
