package favoris

import (
	"context"
	"errors"
	"testing"

	"busbenin/internal/shared/identity"
	"busbenin/internal/trajets"
	"busbenin/pkg/logger"

	"github.com/google/uuid"
)

type key struct{ user, trajet uuid.UUID }

type fakeRepo struct {
	items map[key]Favori
}

func (r *fakeRepo) Add(_ context.Context, f *Favori) error {
	r.items[key{f.UserID, f.TrajetID}] = *f
	return nil
}

func (r *fakeRepo) Remove(_ context.Context, userID, trajetID uuid.UUID) (bool, error) {
	k := key{userID, trajetID}
	_, ok := r.items[k]
	delete(r.items, k)
	return ok, nil
}

func (r *fakeRepo) Exists(_ context.Context, userID, trajetID uuid.UUID) (bool, error) {
	_, ok := r.items[key{userID, trajetID}]
	return ok, nil
}

func (r *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]Favori, error) {
	var out []Favori
	for k, f := range r.items {
		if k.user == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

type fakeTrajets map[uuid.UUID]bool

func (f fakeTrajets) Get(_ context.Context, id uuid.UUID) (*trajets.Trajet, error) {
	if f[id] {
		return &trajets.Trajet{ID: id}, nil
	}
	return nil, trajets.ErrTrajetNotFound
}

func TestToggleAddsThenRemoves(t *testing.T) {
	ctx := context.Background()
	trajetID := uuid.New()
	actor := identity.Actor{UserID: uuid.New()}
	svc := NewService(&fakeRepo{items: map[key]Favori{}}, fakeTrajets{trajetID: true}, logger.NewNop())

	st, err := svc.Toggle(ctx, actor, trajetID)
	if err != nil || !st.Favori {
		t.Fatalf("expected favori added, got %+v err=%v", st, err)
	}
	if st, _ := svc.IsFavorite(ctx, actor, trajetID); !st.Favori {
		t.Fatal("expected IsFavorite true")
	}
	if list, _ := svc.ListMine(ctx, actor); len(list) != 1 {
		t.Fatalf("expected one favori, got %d", len(list))
	}

	st, err = svc.Toggle(ctx, actor, trajetID)
	if err != nil || st.Favori {
		t.Fatalf("expected favori removed, got %+v err=%v", st, err)
	}
	if list, _ := svc.ListMine(ctx, actor); len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}
}

func TestToggleUnknownTrajet(t *testing.T) {
	svc := NewService(&fakeRepo{items: map[key]Favori{}}, fakeTrajets{}, logger.NewNop())
	_, err := svc.Toggle(context.Background(), identity.Actor{UserID: uuid.New()}, uuid.New())
	if !errors.Is(err, trajets.ErrTrajetNotFound) {
		t.Fatalf("expected ErrTrajetNotFound, got %v", err)
	}
}
