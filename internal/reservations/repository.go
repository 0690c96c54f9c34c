package reservations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilter narrows staff listings; a nil CompagnieID means every compagnie
type ListFilter struct {
	UserID      *uuid.UUID
	CompagnieID *uuid.UUID
	Statut      Statut
	Offset      int
	Limit       int
}

type Repository interface {
	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*Reservation, error)
	List(ctx context.Context, f ListFilter) ([]Reservation, int64, error)

	// UpdatePending applies updates only while statut is en_attente and reports whether a row changed
	UpdatePending(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (bool, error)

	DueForReconcile(ctx context.Context, now time.Time, maxAttempts, limit int) ([]Reservation, error)
	ExpiryCandidates(ctx context.Context, today string, createdBefore time.Time, limit int) ([]Reservation, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, res *Reservation) error {
	return r.db.WithContext(ctx).Omit("Trajet").Create(res).Error
}

func (r *repository) withTrajet(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Trajet").Preload("Trajet.Compagnie")
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var res Reservation
	if err := r.withTrajet(ctx).First(&res, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *repository) GetByTransactionID(ctx context.Context, transactionID string) (*Reservation, error) {
	var res Reservation
	err := r.withTrajet(ctx).
		Where("fedapay_transaction_id = ?", transactionID).
		Order("updated_at DESC").
		First(&res).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Reservation, int64, error) {
	var (
		out   []Reservation
		total int64
	)

	query := r.db.WithContext(ctx).Model(&Reservation{})
	if f.UserID != nil {
		query = query.Where("user_id = ?", *f.UserID)
	}
	if f.CompagnieID != nil {
		query = query.Where("trajet_id IN (?)",
			r.db.Table("trajets").Select("id").Where("compagnie_id = ?", *f.CompagnieID))
	}
	if f.Statut != "" {
		query = query.Where("statut = ?", f.Statut)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Trajet").Preload("Trajet.Compagnie").
		Order("created_at DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&out).Error
	return out, total, err
}

func (r *repository) UpdatePending(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&Reservation{}).
		Where("id = ? AND statut = ?", id, StatutEnAttente).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) DueForReconcile(ctx context.Context, now time.Time, maxAttempts, limit int) ([]Reservation, error) {
	var out []Reservation
	err := r.withTrajet(ctx).
		Where("statut = ? AND statut_paiement = ?", StatutEnAttente, PaiementPending).
		Where("fedapay_transaction_id IS NOT NULL").
		Where("next_reconcile_at IS NOT NULL AND next_reconcile_at <= ?", now).
		Where("reconcile_attempts < ?", maxAttempts).
		Order("next_reconcile_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *repository) ExpiryCandidates(ctx context.Context, today string, createdBefore time.Time, limit int) ([]Reservation, error) {
	var out []Reservation
	err := r.withTrajet(ctx).
		Where("statut = ?", StatutEnAttente).
		Where("date_voyage < ? OR (created_at < ? AND statut_paiement <> ?)", today, createdBefore, PaiementApproved).
		Order("created_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
