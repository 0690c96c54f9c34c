package avis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"busbenin/internal/shared/constants"
	"busbenin/internal/shared/identity"
	"busbenin/internal/trajets"
	"busbenin/pkg/cache"
	"busbenin/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAlreadyReviewed = errors.New("you already reviewed this trajet")

// TrajetLookup resolves the reviewed trajet
type TrajetLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*trajets.Trajet, error)
}

type Service interface {
	Create(ctx context.Context, actor identity.Actor, trajetID uuid.UUID, req CreateAvisRequest) (*CreateAvisResponse, error)
	ListByTrajet(ctx context.Context, trajetID uuid.UUID) ([]AvisResponse, error)
}

type service struct {
	repo    Repository
	trajets TrajetLookup
	cache   cache.Service
	log     *logger.Logger
}

func NewService(repo Repository, trajetLookup TrajetLookup, cacheSvc cache.Service, log *logger.Logger) Service {
	return &service{repo: repo, trajets: trajetLookup, cache: cacheSvc, log: log}
}

func (s *service) Create(ctx context.Context, actor identity.Actor, trajetID uuid.UUID, req CreateAvisRequest) (*CreateAvisResponse, error) {
	if _, err := s.trajets.Get(ctx, trajetID); err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, actor.UserID, trajetID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing avis: %w", err)
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	a := &Avis{
		Note:        req.Note,
		Commentaire: strings.TrimSpace(req.Commentaire),
		UserID:      actor.UserID,
		TrajetID:    trajetID,
	}
	rating, err := s.repo.CreateAndRate(ctx, a)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent request stored the same (user, trajet) first
		return nil, ErrAlreadyReviewed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save avis: %w", err)
	}

	s.log.Info("avis created",
		"trajet_id", trajetID.String(),
		"user_id", actor.UserID.String(),
		"note", req.Note,
		"trajet_note", rating.Note,
	)
	cache.Invalidate(ctx, s.cache, constants.PATTERN_INVALIDATE_TRAJETS_ALL)

	return &CreateAvisResponse{Avis: a.ToResponse(), Rating: *rating}, nil
}

func (s *service) ListByTrajet(ctx context.Context, trajetID uuid.UUID) ([]AvisResponse, error) {
	list, err := s.repo.ListByTrajet(ctx, trajetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list avis: %w", err)
	}
	out := make([]AvisResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToResponse())
	}
	return out, nil
}
