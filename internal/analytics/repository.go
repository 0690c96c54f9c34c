package analytics

import (
	"context"
	"fmt"
	"time"

	"busbenin/internal/reservations"

	"gorm.io/gorm"
)

type Repository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountTrajets(ctx context.Context, scope Scope) (int64, error)
	CountByStatut(ctx context.Context, scope Scope) ([]StatusCount, error)
	Revenue(ctx context.Context, scope Scope) (int64, error)
	Recent(ctx context.Context, scope Scope, limit int) ([]reservations.Reservation, error)
	ActivitySince(ctx context.Context, scope Scope, since time.Time) ([]ActivityRow, error)
	ReservationsByCompagnie(ctx context.Context) ([]CompagnieShare, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// reservations returns a query on reservations limited to scope
func (r *repository) reservations(ctx context.Context, scope Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&reservations.Reservation{})
	if scope.CompagnieID != nil {
		q = q.Where("trajet_id IN (?)",
			r.db.Table("trajets").Select("id").Where("compagnie_id = ?", *scope.CompagnieID))
	}
	return q
}

func (r *repository) CountUsers(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Table("profiles").Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, nil
}

func (r *repository) CountTrajets(ctx context.Context, scope Scope) (int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Table("trajets")
	if scope.CompagnieID != nil {
		q = q.Where("compagnie_id = ?", *scope.CompagnieID)
	}
	if err := q.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count trajets: %w", err)
	}
	return total, nil
}

func (r *repository) CountByStatut(ctx context.Context, scope Scope) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.reservations(ctx, scope).
		Select("statut, COUNT(*) AS total").
		Group("statut").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count reservations by statut: %w", err)
	}
	return rows, nil
}

func (r *repository) Revenue(ctx context.Context, scope Scope) (int64, error) {
	var total int64
	err := r.reservations(ctx, scope).
		Where("statut_paiement = ?", reservations.PaiementApproved).
		Select("COALESCE(SUM(montant_total), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to calculate revenue: %w", err)
	}
	return total, nil
}

func (r *repository) Recent(ctx context.Context, scope Scope, limit int) ([]reservations.Reservation, error) {
	var out []reservations.Reservation
	err := r.reservations(ctx, scope).
		Preload("Trajet").Preload("Trajet.Compagnie").
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent reservations: %w", err)
	}
	return out, nil
}

func (r *repository) ActivitySince(ctx context.Context, scope Scope, since time.Time) ([]ActivityRow, error) {
	var rows []ActivityRow
	err := r.reservations(ctx, scope).
		Select("created_at, statut, statut_paiement, montant_total").
		Where("created_at >= ?", since).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reservation activity: %w", err)
	}
	return rows, nil
}

// ReservationsByCompagnie counts every reservation per compagnie name;
// reservations whose trajet is gone come back with an empty name
func (r *repository) ReservationsByCompagnie(ctx context.Context) ([]CompagnieShare, error) {
	var rows []CompagnieShare
	err := r.db.WithContext(ctx).
		Table("reservations AS r").
		Select("COALESCE(c.nom, '') AS name, COUNT(*) AS count").
		Joins("LEFT JOIN trajets t ON t.id = r.trajet_id").
		Joins("LEFT JOIN compagnies c ON c.id = t.compagnie_id").
		Group("c.nom").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count reservations by compagnie: %w", err)
	}
	return rows, nil
}
