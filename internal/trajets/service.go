package trajets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"busbenin/internal/shared/constants"
	"busbenin/internal/shared/identity"
	"busbenin/pkg/cache"
	"busbenin/pkg/logger"

	"github.com/google/uuid"
)

const homeListSize = 3

var (
	ErrTrajetNotFound    = errors.New("trajet not found")
	ErrTrajetInUse       = errors.New("trajet has reservations")
	ErrForbidden         = errors.New("not allowed to manage this trajet")
	ErrCompagnieRequired = errors.New("compagnie_id is required")
	ErrCompagnieNotFound = errors.New("compagnie not found")
)

// CompagnieLookup is the part of the compagnie service trajets rely on
type CompagnieLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service interface {
	Search(ctx context.Context, q SearchQuery) (*PaginatedTrajets, error)
	Home(ctx context.Context) (*HomeSelection, error)
	Get(ctx context.Context, id uuid.UUID) (*Trajet, error)
	ListByCompagnie(ctx context.Context, compagnieID uuid.UUID) ([]Trajet, error)
	IDsByCompagnie(ctx context.Context, compagnieID uuid.UUID) ([]uuid.UUID, error)
	Create(ctx context.Context, actor identity.Actor, req CreateTrajetRequest) (*Trajet, error)
	Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateTrajetRequest) (*Trajet, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
}

type service struct {
	repo       Repository
	compagnies CompagnieLookup
	cache      cache.Service
	log        *logger.Logger
}

func NewService(repo Repository, compagnies CompagnieLookup, cacheSvc cache.Service, log *logger.Logger) Service {
	return &service{repo: repo, compagnies: compagnies, cache: cacheSvc, log: log}
}

func (s *service) Search(ctx context.Context, q SearchQuery) (*PaginatedTrajets, error) {
	q.Normalize()
	key := constants.BuildTrajetSearchKey(q.Depart, q.Arrivee, q.PrixMax, q.Page, q.Limit)

	return cache.Remember(ctx, s.cache, key, constants.TTL_TRAJETS, func() (*PaginatedTrajets, error) {
		list, total, err := s.repo.Search(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("failed to search trajets: %w", err)
		}
		if list == nil {
			list = []Trajet{}
		}
		return &PaginatedTrajets{
			Trajets:    list,
			TotalCount: total,
			Page:       q.Page,
			Limit:      q.Limit,
			TotalPages: int(math.Ceil(float64(total) / float64(q.Limit))),
		}, nil
	})
}

func (s *service) Home(ctx context.Context) (*HomeSelection, error) {
	return cache.Remember(ctx, s.cache, constants.CACHE_KEY_TRAJETS_HOME, constants.TTL_TRAJETS, func() (*HomeSelection, error) {
		top, err := s.repo.TopRated(ctx, homeListSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load popular trajets: %w", err)
		}
		cheap, err := s.repo.Cheapest(ctx, homeListSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load cheapest trajets: %w", err)
		}
		return &HomeSelection{Populaires: top, MoinsChers: cheap}, nil
	})
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Trajet, error) {
	return cache.Remember(ctx, s.cache, constants.BuildTrajetDetailKey(id.String()), constants.TTL_TRAJETS, func() (*Trajet, error) {
		return s.repo.GetByID(ctx, id)
	})
}

func (s *service) ListByCompagnie(ctx context.Context, compagnieID uuid.UUID) ([]Trajet, error) {
	return s.repo.ListByCompagnie(ctx, compagnieID)
}

func (s *service) IDsByCompagnie(ctx context.Context, compagnieID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.IDsByCompagnie(ctx, compagnieID)
}

func (s *service) Create(ctx context.Context, actor identity.Actor, req CreateTrajetRequest) (*Trajet, error) {
	compagnieID, err := s.resolveCompagnie(ctx, actor, req.CompagnieID)
	if err != nil {
		return nil, err
	}

	t := &Trajet{
		Depart:      strings.TrimSpace(req.Depart),
		Arrivee:     strings.TrimSpace(req.Arrivee),
		Prix:        req.Prix,
		Horaires:    normalizeHoraires(req.Horaires),
		Gare:        strings.TrimSpace(req.Gare),
		CompagnieID: compagnieID,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create trajet: %w", err)
	}

	s.log.Info("trajet created", "trajet_id", t.ID.String(), "compagnie_id", compagnieID.String(), "user_id", actor.UserID.String())
	s.invalidate(ctx)
	return s.repo.GetByID(ctx, t.ID)
}

func (s *service) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateTrajetRequest) (*Trajet, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageCompagnie(existing.CompagnieID) {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if req.Depart != nil {
		updates["depart"] = strings.TrimSpace(*req.Depart)
	}
	if req.Arrivee != nil {
		updates["arrivee"] = strings.TrimSpace(*req.Arrivee)
	}
	if req.Prix != nil {
		updates["prix"] = *req.Prix
	}
	if req.Gare != nil {
		updates["gare"] = strings.TrimSpace(*req.Gare)
	}
	if len(req.Horaires) > 0 {
		// map updates skip the json serializer
		raw, err := json.Marshal(normalizeHoraires(req.Horaires))
		if err != nil {
			return nil, fmt.Errorf("failed to encode horaires: %w", err)
		}
		updates["horaires"] = string(raw)
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update trajet: %w", err)
		}
		s.invalidate(ctx)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManageCompagnie(existing.CompagnieID) {
		return ErrForbidden
	}

	n, err := s.repo.CountReservations(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check trajet usage: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w (%d)", ErrTrajetInUse, n)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("trajet deleted", "trajet_id", id.String(), "user_id", actor.UserID.String())
	s.invalidate(ctx)
	return nil
}

// resolveCompagnie pins staff to their own compagnie; admins must name one
func (s *service) resolveCompagnie(ctx context.Context, actor identity.Actor, raw string) (uuid.UUID, error) {
	var requested uuid.UUID
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, ErrCompagnieNotFound
		}
		requested = id
	}

	if !actor.IsAdmin() {
		if actor.CompagnieID == nil {
			return uuid.Nil, ErrForbidden
		}
		if requested != uuid.Nil && requested != *actor.CompagnieID {
			return uuid.Nil, ErrForbidden
		}
		return *actor.CompagnieID, nil
	}

	if requested == uuid.Nil {
		return uuid.Nil, ErrCompagnieRequired
	}
	ok, err := s.compagnies.Exists(ctx, requested)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to check compagnie: %w", err)
	}
	if !ok {
		return uuid.Nil, ErrCompagnieNotFound
	}
	return requested, nil
}

func (s *service) invalidate(ctx context.Context) {
	cache.Invalidate(ctx, s.cache, constants.PATTERN_INVALIDATE_TRAJETS_ALL, constants.PATTERN_INVALIDATE_ANALYTICS)
}

// normalizeHoraires trims, dedupes and sorts departure times
func normalizeHoraires(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, h := range in {
		h = strings.TrimSpace(h)
		if _, ok := seen[h]; ok || h == "" {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}
