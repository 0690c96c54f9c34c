package destinations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"busbenin/internal/shared/constants"
	"busbenin/pkg/cache"

	"github.com/google/uuid"
)

var (
	ErrDestinationNotFound = errors.New("destination not found")
	ErrDestinationExists   = errors.New("a destination with this name already exists")
)

type Service interface {
	List(ctx context.Context) ([]Destination, error)
	Create(ctx context.Context, req DestinationRequest) (*Destination, error)
	Update(ctx context.Context, id uuid.UUID, req DestinationRequest) (*Destination, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  Repository
	cache cache.Service
}

func NewService(repo Repository, cacheSvc cache.Service) Service {
	return &service{repo: repo, cache: cacheSvc}
}

func (s *service) List(ctx context.Context) ([]Destination, error) {
	return cache.Remember(ctx, s.cache, constants.CACHE_KEY_DESTINATIONS_ALL, constants.TTL_DESTINATIONS, func() ([]Destination, error) {
		return s.repo.List(ctx)
	})
}

func (s *service) Create(ctx context.Context, req DestinationRequest) (*Destination, error) {
	nom := strings.TrimSpace(req.Nom)
	if err := s.ensureUnique(ctx, nom, uuid.Nil); err != nil {
		return nil, err
	}

	d := &Destination{Nom: nom}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create destination: %w", err)
	}
	cache.Invalidate(ctx, s.cache, constants.PATTERN_INVALIDATE_DESTINATIONS_ALL)
	return d, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req DestinationRequest) (*Destination, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	nom := strings.TrimSpace(req.Nom)
	if err := s.ensureUnique(ctx, nom, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateNom(ctx, id, nom); err != nil {
		return nil, fmt.Errorf("failed to update destination: %w", err)
	}
	cache.Invalidate(ctx, s.cache, constants.PATTERN_INVALIDATE_DESTINATIONS_ALL)

	d.Nom = nom
	return d, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.Invalidate(ctx, s.cache, constants.PATTERN_INVALIDATE_DESTINATIONS_ALL)
	return nil
}

func (s *service) ensureUnique(ctx context.Context, nom string, self uuid.UUID) error {
	existing, err := s.repo.GetByNom(ctx, nom)
	if err != nil && !errors.Is(err, ErrDestinationNotFound) {
		return fmt.Errorf("failed to check existing destination: %w", err)
	}
	if existing != nil && existing.ID != self {
		return ErrDestinationExists
	}
	return nil
}
