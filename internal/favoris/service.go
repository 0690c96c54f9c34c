package favoris

import (
	"context"
	"fmt"

	"busbenin/internal/shared/identity"
	"busbenin/internal/trajets"
	"busbenin/pkg/logger"

	"github.com/google/uuid"
)

type TrajetLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*trajets.Trajet, error)
}

type Service interface {
	Toggle(ctx context.Context, actor identity.Actor, trajetID uuid.UUID) (*FavoriStatus, error)
	IsFavorite(ctx context.Context, actor identity.Actor, trajetID uuid.UUID) (*FavoriStatus, error)
	ListMine(ctx context.Context, actor identity.Actor) ([]Favori, error)
}

type service struct {
	repo    Repository
	trajets TrajetLookup
	log     *logger.Logger
}

func NewService(repo Repository, trajetLookup TrajetLookup, log *logger.Logger) Service {
	return &service{repo: repo, trajets: trajetLookup, log: log}
}

// Toggle removes the favourite when present, otherwise adds it
func (s *service) Toggle(ctx context.Context, actor identity.Actor, trajetID uuid.UUID) (*FavoriStatus, error) {
	removed, err := s.repo.Remove(ctx, actor.UserID, trajetID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove favori: %w", err)
	}
	if removed {
		return &FavoriStatus{TrajetID: trajetID, Favori: false}, nil
	}

	if _, err := s.trajets.Get(ctx, trajetID); err != nil {
		return nil, err
	}
	if err := s.repo.Add(ctx, &Favori{UserID: actor.UserID, TrajetID: trajetID}); err != nil {
		return nil, fmt.Errorf("failed to add favori: %w", err)
	}
	s.log.Debug("favori added", "user_id", actor.UserID.String(), "trajet_id", trajetID.String())
	return &FavoriStatus{TrajetID: trajetID, Favori: true}, nil
}

func (s *service) IsFavorite(ctx context.Context, actor identity.Actor, trajetID uuid.UUID) (*FavoriStatus, error) {
	ok, err := s.repo.Exists(ctx, actor.UserID, trajetID)
	if err != nil {
		return nil, fmt.Errorf("failed to check favori: %w", err)
	}
	return &FavoriStatus{TrajetID: trajetID, Favori: ok}, nil
}

func (s *service) ListMine(ctx context.Context, actor identity.Actor) ([]Favori, error) {
	list, err := s.repo.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favoris: %w", err)
	}
	if list == nil {
		list = []Favori{}
	}
	return list, nil
}
