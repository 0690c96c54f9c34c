package compagnies

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"busbenin/internal/shared/constants"
	"busbenin/pkg/cache"
	"busbenin/pkg/logger"
	"busbenin/pkg/storage"

	"github.com/google/uuid"
)

var (
	ErrCompagnieNotFound = errors.New("compagnie not found")
	ErrCompagnieInUse    = errors.New("compagnie still has trajets")
)

type Service interface {
	List(ctx context.Context) ([]Compagnie, error)
	Get(ctx context.Context, id uuid.UUID) (*Compagnie, error)
	Create(ctx context.Context, req CreateCompagnieRequest) (*Compagnie, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateCompagnieRequest) (*Compagnie, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UploadLogo(ctx context.Context, id uuid.UUID, file io.Reader) (*Compagnie, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo     Repository
	cache    cache.Service
	uploader storage.Uploader
	log      *logger.Logger
}

// NewService wires the compagnie service; a nil uploader disables logo upload
func NewService(repo Repository, cacheSvc cache.Service, uploader storage.Uploader, log *logger.Logger) Service {
	return &service{repo: repo, cache: cacheSvc, uploader: uploader, log: log}
}

func (s *service) List(ctx context.Context) ([]Compagnie, error) {
	return cache.Remember(ctx, s.cache, constants.CACHE_KEY_COMPAGNIES_LIST, constants.TTL_COMPAGNIES, func() ([]Compagnie, error) {
		return s.repo.List(ctx)
	})
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Compagnie, error) {
	return cache.Remember(ctx, s.cache, constants.BuildCompagnieDetailKey(id.String()), constants.TTL_COMPAGNIES, func() (*Compagnie, error) {
		return s.repo.GetByID(ctx, id)
	})
}

func (s *service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *service) Create(ctx context.Context, req CreateCompagnieRequest) (*Compagnie, error) {
	c := &Compagnie{
		Nom:       strings.TrimSpace(req.Nom),
		Telephone: strings.TrimSpace(req.Telephone),
		Adresse:   strings.TrimSpace(req.Adresse),
		LogoURL:   strings.TrimSpace(req.LogoURL),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create compagnie: %w", err)
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateCompagnieRequest) (*Compagnie, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Nom != nil {
		updates["nom"] = strings.TrimSpace(*req.Nom)
	}
	if req.Telephone != nil {
		updates["telephone"] = strings.TrimSpace(*req.Telephone)
	}
	if req.Adresse != nil {
		updates["adresse"] = strings.TrimSpace(*req.Adresse)
	}
	if req.LogoURL != nil {
		updates["logo_url"] = strings.TrimSpace(*req.LogoURL)
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update compagnie: %w", err)
		}
		s.invalidate(ctx)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.CountTrajets(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check compagnie usage: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w (%d)", ErrCompagnieInUse, n)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) UploadLogo(ctx context.Context, id uuid.UUID, file io.Reader) (*Compagnie, error) {
	if s.uploader == nil {
		return nil, storage.ErrNotConfigured
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, file, "compagnie-"+id.String())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, map[string]interface{}{"logo_url": url}); err != nil {
		return nil, fmt.Errorf("failed to save logo url: %w", err)
	}
	s.log.Info("compagnie logo uploaded", "compagnie_id", id.String(), "url", url)
	s.invalidate(ctx)
	return s.repo.GetByID(ctx, id)
}

// compagnie names are embedded in trajet payloads, so those go too
func (s *service) invalidate(ctx context.Context) {
	cache.Invalidate(ctx, s.cache, constants.PATTERN_INVALIDATE_COMPAGNIES_ALL, constants.PATTERN_INVALIDATE_TRAJETS_ALL)
}
