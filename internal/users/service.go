package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"busbenin/internal/shared/identity"
	"busbenin/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrCannotDeleteSelf   = errors.New("administrators cannot delete their own profile")
	ErrCompagnieNotFound  = errors.New("compagnie not found")
	ErrInvalidCompagnieID = errors.New("invalid compagnie id")
)

// CompagnieLookup checks that a company assignment points at an existing compagnie
type CompagnieLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service interface {
	GetMe(ctx context.Context, actor identity.Actor) (*ProfileResponse, error)
	UpdateMe(ctx context.Context, actor identity.Actor, req UpdateProfileRequest) (*ProfileResponse, error)
	List(ctx context.Context, q ListProfilesQuery) ([]ProfileResponse, int64, error)
	UpdateAccess(ctx context.Context, id uuid.UUID, req UpdateAccessRequest) (*ProfileResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
}

type service struct {
	repo       Repository
	compagnies CompagnieLookup
	log        *logger.Logger
}

func NewService(repo Repository, compagnies CompagnieLookup, log *logger.Logger) Service {
	return &service{repo: repo, compagnies: compagnies, log: log}
}

func (s *service) GetMe(ctx context.Context, actor identity.Actor) (*ProfileResponse, error) {
	p, err := s.repo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	resp := p.ToResponse()
	return &resp, nil
}

func (s *service) UpdateMe(ctx context.Context, actor identity.Actor, req UpdateProfileRequest) (*ProfileResponse, error) {
	updates := map[string]interface{}{}
	if req.Username != nil {
		updates["username"] = strings.TrimSpace(*req.Username)
	}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, actor.UserID, updates); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}
	return s.GetMe(ctx, actor)
}

func (s *service) List(ctx context.Context, q ListProfilesQuery) ([]ProfileResponse, int64, error) {
	q.Normalize()
	profiles, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list profiles: %w", err)
	}
	out := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		out[i] = profiles[i].ToResponse()
	}
	return out, total, nil
}

func (s *service) UpdateAccess(ctx context.Context, id uuid.UUID, req UpdateAccessRequest) (*ProfileResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Admin != nil {
		updates["admin"] = *req.Admin
	}
	if req.CompagnieID != nil {
		if *req.CompagnieID == "" {
			updates["compagnie_id"] = nil
		} else {
			cid, err := uuid.Parse(*req.CompagnieID)
			if err != nil {
				return nil, ErrInvalidCompagnieID
			}
			ok, err := s.compagnies.Exists(ctx, cid)
			if err != nil {
				return nil, fmt.Errorf("failed to check compagnie: %w", err)
			}
			if !ok {
				return nil, ErrCompagnieNotFound
			}
			updates["compagnie_id"] = cid
		}
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("failed to update access: %w", err)
		}
		s.log.Info("profile access updated", "profile_id", id.String(), "changes", len(updates))
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := p.ToResponse()
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if actor.UserID == id {
		return ErrCannotDeleteSelf
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("profile deleted", "profile_id", id.String(), "by", actor.UserID.String())
	return nil
}
