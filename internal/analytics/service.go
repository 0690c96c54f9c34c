package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"busbenin/internal/reservations"
	"busbenin/internal/shared/constants"
	"busbenin/internal/shared/identity"
	"busbenin/pkg/cache"
	"busbenin/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrForbidden        = errors.New("dashboard not available for this account")
	ErrCompagnieMissing = errors.New("compagnie_id is required for admins")
)

type Service interface {
	AdminDashboard(ctx context.Context) (*AdminDashboard, error)
	CompanyDashboard(ctx context.Context, actor identity.Actor, compagnieID *uuid.UUID) (*CompanyDashboard, error)
}

type service struct {
	repo     Repository
	cache    cache.Service
	location *time.Location
	log      *logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, cacheService cache.Service, location *time.Location, log *logger.Logger) Service {
	if location == nil {
		location = time.UTC
	}
	return &service{repo: repo, cache: cacheService, location: location, log: log, now: time.Now}
}

func (s *service) AdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	return cache.Remember(ctx, s.cache, constants.CACHE_KEY_ANALYTICS_ADMIN_DASHBOARD, constants.TTL_ANALYTICS_DASHBOARD,
		func() (*AdminDashboard, error) {
			return s.buildAdmin(ctx)
		})
}

func (s *service) buildAdmin(ctx context.Context) (*AdminDashboard, error) {
	scope := Scope{}
	dash := &AdminDashboard{GeneratedAt: s.now().UTC()}

	var err error
	if dash.Counts.Users, err = s.repo.CountUsers(ctx); err != nil {
		return nil, err
	}
	if err := s.fillCommon(ctx, scope, &dash.Counts, &dash.Revenue, &dash.Recent, &dash.Daily); err != nil {
		return nil, err
	}

	byCompagnie, err := s.repo.ReservationsByCompagnie(ctx)
	if err != nil {
		return nil, err
	}
	dash.Compagnies = FoldCompagnies(byCompagnie, TopCompagnies)
	dash.Statuts = StatusDistribution(dash.Counts)

	s.log.DebugContext(ctx, "admin dashboard computed", "reservations", dash.Counts.Reservations)
	return dash, nil
}

// CompanyDashboard is scoped to the caller's compagnie; admins pick one with compagnieID
func (s *service) CompanyDashboard(ctx context.Context, actor identity.Actor, compagnieID *uuid.UUID) (*CompanyDashboard, error) {
	var cid uuid.UUID
	switch {
	case actor.IsAdmin():
		if compagnieID == nil {
			return nil, ErrCompagnieMissing
		}
		cid = *compagnieID
	case actor.CompagnieID != nil:
		cid = *actor.CompagnieID
	default:
		return nil, ErrForbidden
	}

	key := constants.BuildCompanyDashboardKey(cid.String())
	return cache.Remember(ctx, s.cache, key, constants.TTL_ANALYTICS_DASHBOARD, func() (*CompanyDashboard, error) {
		scope := Scope{CompagnieID: &cid}
		dash := &CompanyDashboard{CompagnieID: cid, GeneratedAt: s.now().UTC()}
		if err := s.fillCommon(ctx, scope, &dash.Counts, &dash.Revenue, &dash.Recent, &dash.Daily); err != nil {
			return nil, err
		}
		dash.Statuts = StatusDistribution(dash.Counts)
		return dash, nil
	})
}

func (s *service) fillCommon(ctx context.Context, scope Scope, counts *Counts, revenue *int64, recent *[]reservations.Reservation, daily *[]DailyPoint) error {
	var err error
	if counts.Trajets, err = s.repo.CountTrajets(ctx, scope); err != nil {
		return err
	}

	byStatut, err := s.repo.CountByStatut(ctx, scope)
	if err != nil {
		return err
	}
	ApplyStatusCounts(counts, byStatut)

	if *revenue, err = s.repo.Revenue(ctx, scope); err != nil {
		return err
	}

	if *recent, err = s.repo.Recent(ctx, scope, RecentLimit); err != nil {
		return err
	}
	if *recent == nil {
		*recent = []reservations.Reservation{}
	}

	now := s.now()
	local := now.In(s.location)
	since := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location).AddDate(0, 0, -(SeriesDays - 1))
	rows, err := s.repo.ActivitySince(ctx, scope, since)
	if err != nil {
		return fmt.Errorf("daily series: %w", err)
	}
	*daily = DailySeries(rows, now, s.location, SeriesDays)
	return nil
}
