package trajets

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, t *Trajet) error
	GetByID(ctx context.Context, id uuid.UUID) (*Trajet, error)
	Search(ctx context.Context, q SearchQuery) ([]Trajet, int64, error)
	TopRated(ctx context.Context, limit int) ([]Trajet, error)
	Cheapest(ctx context.Context, limit int) ([]Trajet, error)
	ListByCompagnie(ctx context.Context, compagnieID uuid.UUID) ([]Trajet, error)
	IDsByCompagnie(ctx context.Context, compagnieID uuid.UUID) ([]uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountReservations(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t *Trajet) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Trajet, error) {
	var t Trajet
	if err := r.db.WithContext(ctx).Preload("Compagnie").First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrajetNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) Search(ctx context.Context, q SearchQuery) ([]Trajet, int64, error) {
	var (
		out   []Trajet
		total int64
	)

	query := r.db.WithContext(ctx).Model(&Trajet{})
	if d := strings.TrimSpace(q.Depart); d != "" {
		query = query.Where("LOWER(depart) LIKE ?", "%"+strings.ToLower(d)+"%")
	}
	if a := strings.TrimSpace(q.Arrivee); a != "" {
		query = query.Where("LOWER(arrivee) LIKE ?", "%"+strings.ToLower(a)+"%")
	}
	if q.PrixMax > 0 {
		query = query.Where("prix <= ?", q.PrixMax)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Compagnie").
		Order("note DESC").Order("prix ASC").
		Offset(q.Offset()).Limit(q.Limit).
		Find(&out).Error
	return out, total, err
}

func (r *repository) TopRated(ctx context.Context, limit int) ([]Trajet, error) {
	var out []Trajet
	err := r.db.WithContext(ctx).Preload("Compagnie").
		Order("note DESC").Order("nb_avis DESC").
		Limit(limit).Find(&out).Error
	return out, err
}

func (r *repository) Cheapest(ctx context.Context, limit int) ([]Trajet, error) {
	var out []Trajet
	err := r.db.WithContext(ctx).Preload("Compagnie").
		Order("prix ASC").
		Limit(limit).Find(&out).Error
	return out, err
}

func (r *repository) ListByCompagnie(ctx context.Context, compagnieID uuid.UUID) ([]Trajet, error) {
	var out []Trajet
	err := r.db.WithContext(ctx).
		Where("compagnie_id = ?", compagnieID).
		Order("depart ASC").Order("arrivee ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) IDsByCompagnie(ctx context.Context, compagnieID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&Trajet{}).
		Where("compagnie_id = ?", compagnieID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Trajet{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Trajet{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTrajetNotFound
	}
	return nil
}

func (r *repository) CountReservations(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("reservations").Where("trajet_id = ?", id).Count(&n).Error
	return n, err
}
