package avis

import (
	"context"
	"errors"
	"testing"

	"busbenin/internal/shared/identity"
	"busbenin/internal/trajets"
	"busbenin/internal/users"
	"busbenin/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeRepo struct {
	items []Avis
}

func (r *fakeRepo) CreateAndRate(_ context.Context, a *Avis) (*Rating, error) {
	a.ID = uuid.New()
	r.items = append(r.items, *a)
	var sum, n int
	for _, x := range r.items {
		if x.TrajetID == a.TrajetID {
			sum += x.Note
			n++
		}
	}
	return &Rating{Note: roundNote(float64(sum) / float64(n)), NbAvis: int64(n)}, nil
}

func (r *fakeRepo) Exists(_ context.Context, userID, trajetID uuid.UUID) (bool, error) {
	for _, x := range r.items {
		if x.UserID == userID && x.TrajetID == trajetID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) ListByTrajet(_ context.Context, trajetID uuid.UUID) ([]Avis, error) {
	var out []Avis
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].TrajetID == trajetID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

type fakeTrajets map[uuid.UUID]*trajets.Trajet

func (f fakeTrajets) Get(_ context.Context, id uuid.UUID) (*trajets.Trajet, error) {
	if t, ok := f[id]; ok {
		return t, nil
	}
	return nil, trajets.ErrTrajetNotFound
}

func TestCreateRecomputesRating(t *testing.T) {
	ctx := context.Background()
	trajetID := uuid.New()
	svc := NewService(&fakeRepo{}, fakeTrajets{trajetID: {ID: trajetID}}, nil, logger.NewNop())

	if _, err := svc.Create(ctx, identity.Actor{UserID: uuid.New()}, trajetID, CreateAvisRequest{Note: 5}); err != nil {
		t.Fatalf("first avis: %v", err)
	}
	out, err := svc.Create(ctx, identity.Actor{UserID: uuid.New()}, trajetID, CreateAvisRequest{Note: 4, Commentaire: "  bus propre "})
	if err != nil {
		t.Fatalf("second avis: %v", err)
	}
	if out.Rating.Note != 4.5 || out.Rating.NbAvis != 2 {
		t.Fatalf("unexpected rating %+v", out.Rating)
	}
	if out.Avis.Commentaire != "bus propre" {
		t.Fatalf("commentaire not trimmed: %q", out.Avis.Commentaire)
	}
}

func TestCreateOncePerUser(t *testing.T) {
	ctx := context.Background()
	trajetID := uuid.New()
	actor := identity.Actor{UserID: uuid.New()}
	svc := NewService(&fakeRepo{}, fakeTrajets{trajetID: {ID: trajetID}}, nil, logger.NewNop())

	if _, err := svc.Create(ctx, actor, trajetID, CreateAvisRequest{Note: 3}); err != nil {
		t.Fatalf("first avis: %v", err)
	}
	if _, err := svc.Create(ctx, actor, trajetID, CreateAvisRequest{Note: 1}); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}
}

// lateRepo answers Exists before a concurrent insert lands, then hits the unique index
type lateRepo struct {
	fakeRepo
}

func (r *lateRepo) Exists(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}

func (r *lateRepo) CreateAndRate(ctx context.Context, a *Avis) (*Rating, error) {
	if found, _ := r.fakeRepo.Exists(ctx, a.UserID, a.TrajetID); found {
		return nil, gorm.ErrDuplicatedKey
	}
	return r.fakeRepo.CreateAndRate(ctx, a)
}

func TestCreateDuplicateKeyIsAlreadyReviewed(t *testing.T) {
	ctx := context.Background()
	trajetID := uuid.New()
	actor := identity.Actor{UserID: uuid.New()}
	svc := NewService(&lateRepo{}, fakeTrajets{trajetID: {ID: trajetID}}, nil, logger.NewNop())

	if _, err := svc.Create(ctx, actor, trajetID, CreateAvisRequest{Note: 3}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, actor, trajetID, CreateAvisRequest{Note: 2}); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed on unique violation, got %v", err)
	}
}

func TestCreateUnknownTrajet(t *testing.T) {
	svc := NewService(&fakeRepo{}, fakeTrajets{}, nil, logger.NewNop())
	_, err := svc.Create(context.Background(), identity.Actor{UserID: uuid.New()}, uuid.New(), CreateAvisRequest{Note: 3})
	if !errors.Is(err, trajets.ErrTrajetNotFound) {
		t.Fatalf("expected ErrTrajetNotFound, got %v", err)
	}
}

func TestListNewestFirstWithAuthor(t *testing.T) {
	trajetID := uuid.New()
	repo := &fakeRepo{items: []Avis{
		{ID: uuid.New(), Note: 2, TrajetID: trajetID, User: &users.Profile{Username: "koffi"}},
		{ID: uuid.New(), Note: 5, TrajetID: trajetID, User: &users.Profile{Username: "afi"}},
		{ID: uuid.New(), Note: 4, TrajetID: uuid.New()},
	}}
	svc := NewService(repo, fakeTrajets{}, nil, logger.NewNop())

	list, err := svc.ListByTrajet(context.Background(), trajetID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Note != 5 || list[0].Auteur == "" {
		t.Fatalf("unexpected list %+v", list)
	}
}
