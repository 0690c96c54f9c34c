package trajets

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"
	"testing"

	"busbenin/internal/shared/identity"
	"busbenin/pkg/cache"
	"busbenin/pkg/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	items        map[uuid.UUID]*Trajet
	reservations map[uuid.UUID]int64
	searches     int
	lastUpdate   map[string]interface{}
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[uuid.UUID]*Trajet{}, reservations: map[uuid.UUID]int64{}}
}

func (r *fakeRepo) Create(_ context.Context, t *Trajet) error {
	t.ID = uuid.New()
	r.items[t.ID] = t
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Trajet, error) {
	if t, ok := r.items[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, ErrTrajetNotFound
}

func (r *fakeRepo) Search(_ context.Context, q SearchQuery) ([]Trajet, int64, error) {
	r.searches++
	var out []Trajet
	for _, t := range r.items {
		if q.Depart != "" && !strings.Contains(strings.ToLower(t.Depart), strings.ToLower(q.Depart)) {
			continue
		}
		if q.PrixMax > 0 && t.Prix > q.PrixMax {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Note > out[j].Note })
	return out, int64(len(out)), nil
}

func (r *fakeRepo) sorted(less func(a, b Trajet) bool, limit int) []Trajet {
	var out []Trajet
	for _, t := range r.items {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *fakeRepo) TopRated(_ context.Context, limit int) ([]Trajet, error) {
	return r.sorted(func(a, b Trajet) bool { return a.Note > b.Note }, limit), nil
}

func (r *fakeRepo) Cheapest(_ context.Context, limit int) ([]Trajet, error) {
	return r.sorted(func(a, b Trajet) bool { return a.Prix < b.Prix }, limit), nil
}

func (r *fakeRepo) ListByCompagnie(_ context.Context, cid uuid.UUID) ([]Trajet, error) {
	var out []Trajet
	for _, t := range r.items {
		if t.CompagnieID == cid {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeRepo) IDsByCompagnie(ctx context.Context, cid uuid.UUID) ([]uuid.UUID, error) {
	list, _ := r.ListByCompagnie(ctx, cid)
	ids := make([]uuid.UUID, 0, len(list))
	for _, t := range list {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

func (r *fakeRepo) Update(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	r.lastUpdate = updates
	t := r.items[id]
	if v, ok := updates["prix"]; ok {
		t.Prix = v.(int64)
	}
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *fakeRepo) CountReservations(_ context.Context, id uuid.UUID) (int64, error) {
	return r.reservations[id], nil
}

type fakeCompagnies map[uuid.UUID]bool

func (f fakeCompagnies) Exists(_ context.Context, id uuid.UUID) (bool, error) { return f[id], nil }

func seed(repo *fakeRepo, cid uuid.UUID, depart string, prix int64, note float64) *Trajet {
	t := &Trajet{Depart: depart, Arrivee: "Parakou", Prix: prix, Note: note, CompagnieID: cid, Horaires: []string{"07:00"}}
	_ = repo.Create(context.Background(), t)
	return t
}

func TestCreateByStaffPinsCompagnie(t *testing.T) {
	repo := newFakeRepo()
	cid := uuid.New()
	svc := NewService(repo, fakeCompagnies{}, nil, logger.NewNop())
	staff := identity.Actor{UserID: uuid.New(), Role: identity.RoleCompany, CompagnieID: &cid}

	got, err := svc.Create(context.Background(), staff, CreateTrajetRequest{
		Depart: " Cotonou ", Arrivee: "Parakou", Prix: 6500,
		Horaires: []string{"14:00", "07:30", "14:00"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.CompagnieID != cid || got.Depart != "Cotonou" {
		t.Fatalf("unexpected trajet %+v", got)
	}
	if !reflect.DeepEqual(got.Horaires, []string{"07:30", "14:00"}) {
		t.Fatalf("horaires not normalized: %v", got.Horaires)
	}

	other := uuid.New().String()
	if _, err := svc.Create(context.Background(), staff, CreateTrajetRequest{Depart: "A", Arrivee: "B", Prix: 1, Horaires: []string{"08:00"}, CompagnieID: other}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign compagnie, got %v", err)
	}
}

func TestCreateByAdminRequiresExistingCompagnie(t *testing.T) {
	cid := uuid.New()
	svc := NewService(newFakeRepo(), fakeCompagnies{cid: true}, nil, logger.NewNop())
	admin := identity.Actor{UserID: uuid.New(), Role: identity.RoleAdmin}
	req := CreateTrajetRequest{Depart: "Cotonou", Arrivee: "Natitingou", Prix: 9000, Horaires: []string{"06:00"}}

	if _, err := svc.Create(context.Background(), admin, req); !errors.Is(err, ErrCompagnieRequired) {
		t.Fatalf("expected ErrCompagnieRequired, got %v", err)
	}
	req.CompagnieID = uuid.New().String()
	if _, err := svc.Create(context.Background(), admin, req); !errors.Is(err, ErrCompagnieNotFound) {
		t.Fatalf("expected ErrCompagnieNotFound, got %v", err)
	}
	req.CompagnieID = cid.String()
	if _, err := svc.Create(context.Background(), admin, req); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestUpdateRejectsOtherCompanyStaff(t *testing.T) {
	repo := newFakeRepo()
	tr := seed(repo, uuid.New(), "Cotonou", 5000, 4)
	other := uuid.New()
	svc := NewService(repo, fakeCompagnies{}, nil, logger.NewNop())

	prix := int64(5500)
	_, err := svc.Update(context.Background(), identity.Actor{Role: identity.RoleCompany, CompagnieID: &other}, tr.ID, UpdateTrajetRequest{Prix: &prix})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateEncodesHoraires(t *testing.T) {
	repo := newFakeRepo()
	tr := seed(repo, uuid.New(), "Cotonou", 5000, 4)
	svc := NewService(repo, fakeCompagnies{}, nil, logger.NewNop())

	_, err := svc.Update(context.Background(), identity.System, tr.ID, UpdateTrajetRequest{Horaires: []string{"18:00", "06:15"}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := repo.lastUpdate["horaires"]; got != `["06:15","18:00"]` {
		t.Fatalf("unexpected horaires column %v", got)
	}
}

func TestDeleteRefusedWithReservations(t *testing.T) {
	repo := newFakeRepo()
	tr := seed(repo, uuid.New(), "Cotonou", 5000, 4)
	repo.reservations[tr.ID] = 3
	svc := NewService(repo, fakeCompagnies{}, nil, logger.NewNop())

	if err := svc.Delete(context.Background(), identity.System, tr.ID); !errors.Is(err, ErrTrajetInUse) {
		t.Fatalf("expected ErrTrajetInUse, got %v", err)
	}
}

func TestSearchCachedUntilWrite(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	cid := uuid.New()
	seed(repo, cid, "Cotonou", 5000, 4.5)
	seed(repo, cid, "Bohicon", 3000, 3)
	svc := NewService(repo, fakeCompagnies{cid: true}, cache.NewMemory(), logger.NewNop())

	q := SearchQuery{Depart: "coto"}
	first, err := svc.Search(ctx, q)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if first.TotalCount != 1 || first.Page != 1 || first.Limit != 20 || first.TotalPages != 1 {
		t.Fatalf("unexpected page %+v", first)
	}
	_, _ = svc.Search(ctx, q)
	if repo.searches != 1 {
		t.Fatalf("expected cached search, repo hit %d times", repo.searches)
	}

	_, _ = svc.Create(ctx, identity.System, CreateTrajetRequest{Depart: "Cotonou", Arrivee: "Djougou", Prix: 8000, Horaires: []string{"05:00"}, CompagnieID: cid.String()})
	second, _ := svc.Search(ctx, q)
	if second.TotalCount != 2 || repo.searches != 2 {
		t.Fatalf("cache not invalidated: %+v (searches %d)", second, repo.searches)
	}
}

func TestHomeSelection(t *testing.T) {
	repo := newFakeRepo()
	cid := uuid.New()
	seed(repo, cid, "A", 9000, 5)
	seed(repo, cid, "B", 1000, 1)
	seed(repo, cid, "C", 4000, 4)
	seed(repo, cid, "D", 2000, 2)
	svc := NewService(repo, fakeCompagnies{}, nil, logger.NewNop())

	home, err := svc.Home(context.Background())
	if err != nil {
		t.Fatalf("home: %v", err)
	}
	if len(home.Populaires) != 3 || home.Populaires[0].Depart != "A" {
		t.Fatalf("unexpected populaires %+v", home.Populaires)
	}
	if len(home.MoinsChers) != 3 || home.MoinsChers[0].Depart != "B" {
		t.Fatalf("unexpected moins chers %+v", home.MoinsChers)
	}
}

func TestTrajetHelpers(t *testing.T) {
	tr := Trajet{Depart: "Cotonou", Arrivee: "Parakou", Horaires: []string{"07:00", "13:30"}}
	if !tr.HasHoraire("13:30") || tr.HasHoraire("09:00") {
		t.Fatal("HasHoraire mismatch")
	}
	if tr.Summary() != "Cotonou → Parakou" {
		t.Fatalf("unexpected summary %q", tr.Summary())
	}
	if tr.CompagnieNom() != "" {
		t.Fatal("expected empty compagnie name")
	}
}
