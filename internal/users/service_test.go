package users

import (
	"context"
	"errors"
	"testing"

	"busbenin/internal/shared/identity"
	"busbenin/pkg/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	profiles map[uuid.UUID]*Profile
}

func newFakeRepo(ps ...*Profile) *fakeRepo {
	r := &fakeRepo{profiles: map[uuid.UUID]*Profile{}}
	for _, p := range ps {
		r.profiles[p.ID] = p
	}
	return r
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) List(_ context.Context, q ListProfilesQuery) ([]Profile, int64, error) {
	var out []Profile
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) Update(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	p, ok := r.profiles[id]
	if !ok {
		return ErrProfileNotFound
	}
	for k, v := range updates {
		switch k {
		case "username":
			p.Username = v.(string)
		case "full_name":
			p.FullName = v.(string)
		case "admin":
			p.Admin = v.(bool)
		case "compagnie_id":
			if v == nil {
				p.CompagnieID = nil
			} else {
				cid := v.(uuid.UUID)
				p.CompagnieID = &cid
			}
		}
	}
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.profiles[id]; !ok {
		return ErrProfileNotFound
	}
	delete(r.profiles, id)
	return nil
}

func (r *fakeRepo) Count(context.Context) (int64, error) { return int64(len(r.profiles)), nil }

type fakeCompagnies map[uuid.UUID]bool

func (f fakeCompagnies) Exists(_ context.Context, id uuid.UUID) (bool, error) { return f[id], nil }

func TestUpdateAccessAssignsCompagnie(t *testing.T) {
	p := &Profile{ID: uuid.New(), Email: "staff@trans.bj"}
	cid := uuid.New()
	svc := NewService(newFakeRepo(p), fakeCompagnies{cid: true}, logger.NewNop())

	raw := cid.String()
	resp, err := svc.UpdateAccess(context.Background(), p.ID, UpdateAccessRequest{CompagnieID: &raw})
	if err != nil {
		t.Fatalf("update access: %v", err)
	}
	if resp.Role != identity.RoleCompany || resp.CompagnieID == nil || *resp.CompagnieID != raw {
		t.Fatalf("unexpected profile %+v", resp)
	}

	empty := ""
	resp, err = svc.UpdateAccess(context.Background(), p.ID, UpdateAccessRequest{CompagnieID: &empty})
	if err != nil {
		t.Fatalf("detach: %v", err)
	}
	if resp.Role != identity.RoleUser || resp.CompagnieID != nil {
		t.Fatalf("expected detached user, got %+v", resp)
	}
}

func TestUpdateAccessRejectsUnknownCompagnie(t *testing.T) {
	p := &Profile{ID: uuid.New(), Email: "x@y.bj"}
	svc := NewService(newFakeRepo(p), fakeCompagnies{}, logger.NewNop())

	raw := uuid.NewString()
	if _, err := svc.UpdateAccess(context.Background(), p.ID, UpdateAccessRequest{CompagnieID: &raw}); !errors.Is(err, ErrCompagnieNotFound) {
		t.Fatalf("expected ErrCompagnieNotFound, got %v", err)
	}
	bad := "not-a-uuid"
	if _, err := svc.UpdateAccess(context.Background(), p.ID, UpdateAccessRequest{CompagnieID: &bad}); !errors.Is(err, ErrInvalidCompagnieID) {
		t.Fatalf("expected ErrInvalidCompagnieID, got %v", err)
	}
}

func TestDeleteSelfRefused(t *testing.T) {
	admin := &Profile{ID: uuid.New(), Email: "admin@busbenin.bj", Admin: true}
	svc := NewService(newFakeRepo(admin), fakeCompagnies{}, logger.NewNop())

	err := svc.Delete(context.Background(), identity.Actor{UserID: admin.ID, Role: identity.RoleAdmin}, admin.ID)
	if !errors.Is(err, ErrCannotDeleteSelf) {
		t.Fatalf("expected ErrCannotDeleteSelf, got %v", err)
	}
}

func TestUpdateMeTrimsFields(t *testing.T) {
	p := &Profile{ID: uuid.New(), Email: "awa@mail.bj"}
	svc := NewService(newFakeRepo(p), fakeCompagnies{}, logger.NewNop())

	name := "  Awa Dossou "
	resp, err := svc.UpdateMe(context.Background(), identity.Actor{UserID: p.ID}, UpdateProfileRequest{FullName: &name})
	if err != nil {
		t.Fatalf("update me: %v", err)
	}
	if resp.FullName != "Awa Dossou" {
		t.Fatalf("full name %q", resp.FullName)
	}
}
