package avis

import (
	"context"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// CreateAndRate inserts the avis and refreshes the trajet aggregates in one transaction
	CreateAndRate(ctx context.Context, a *Avis) (*Rating, error)
	Exists(ctx context.Context, userID, trajetID uuid.UUID) (bool, error)
	ListByTrajet(ctx context.Context, trajetID uuid.UUID) ([]Avis, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateAndRate(ctx context.Context, a *Avis) (*Rating, error) {
	var rating Rating
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}

		var agg struct {
			Moyenne float64
			Total   int64
		}
		if err := tx.Model(&Avis{}).
			Select("COALESCE(AVG(note), 0) AS moyenne, COUNT(*) AS total").
			Where("trajet_id = ?", a.TrajetID).
			Scan(&agg).Error; err != nil {
			return err
		}

		rating = Rating{Note: roundNote(agg.Moyenne), NbAvis: agg.Total}
		return tx.Table("trajets").
			Where("id = ?", a.TrajetID).
			Updates(map[string]interface{}{"note": rating.Note, "nb_avis": rating.NbAvis}).Error
	})
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *repository) Exists(ctx context.Context, userID, trajetID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Avis{}).
		Where("user_id = ? AND trajet_id = ?", userID, trajetID).
		Count(&n).Error
	return n > 0, err
}

func (r *repository) ListByTrajet(ctx context.Context, trajetID uuid.UUID) ([]Avis, error) {
	var out []Avis
	err := r.db.WithContext(ctx).Preload("User").
		Where("trajet_id = ?", trajetID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// roundNote keeps one decimal
func roundNote(v float64) float64 {
	return math.Round(v*10) / 10
}
