package destinations

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"busbenin/pkg/cache"

	"github.com/google/uuid"
)

type fakeRepo struct {
	items     map[uuid.UUID]*Destination
	listCalls int
}

func (r *fakeRepo) Create(_ context.Context, d *Destination) error {
	d.ID = uuid.New()
	r.items[d.ID] = d
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Destination, error) {
	if d, ok := r.items[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, ErrDestinationNotFound
}

func (r *fakeRepo) GetByNom(_ context.Context, nom string) (*Destination, error) {
	for _, d := range r.items {
		if strings.EqualFold(d.Nom, nom) {
			return d, nil
		}
	}
	return nil, ErrDestinationNotFound
}

func (r *fakeRepo) List(context.Context) ([]Destination, error) {
	r.listCalls++
	var out []Destination
	for _, d := range r.items {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nom < out[j].Nom })
	return out, nil
}

func (r *fakeRepo) UpdateNom(_ context.Context, id uuid.UUID, nom string) error {
	r.items[id].Nom = nom
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return ErrDestinationNotFound
	}
	delete(r.items, id)
	return nil
}

func TestListIsCachedUntilWrite(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{items: map[uuid.UUID]*Destination{}}
	svc := NewService(repo, cache.NewMemory())

	if _, err := svc.Create(ctx, DestinationRequest{Nom: "Parakou"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, _ = svc.List(ctx)
	_, _ = svc.List(ctx)
	if repo.listCalls != 1 {
		t.Fatalf("expected one repository read, got %d", repo.listCalls)
	}

	if _, err := svc.Create(ctx, DestinationRequest{Nom: " Cotonou "}); err != nil {
		t.Fatalf("create: %v", err)
	}
	list, _ := svc.List(ctx)
	if repo.listCalls != 2 || len(list) != 2 || list[0].Nom != "Cotonou" {
		t.Fatalf("cache not invalidated: calls=%d list=%v", repo.listCalls, list)
	}
}

func TestCreateRejectsDuplicateIgnoringCase(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeRepo{items: map[uuid.UUID]*Destination{}}, nil)

	if _, err := svc.Create(ctx, DestinationRequest{Nom: "Natitingou"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, DestinationRequest{Nom: "natitingou"}); !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("expected ErrDestinationExists, got %v", err)
	}
}
