package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"busbenin/internal/reservations"
	"busbenin/internal/shared/identity"
	"busbenin/pkg/cache"
	"busbenin/pkg/logger"

	"github.com/google/uuid"
)

func TestDailySeries(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)
	rows := []ActivityRow{
		{CreatedAt: time.Date(2026, 3, 10, 8, 0, 0, 0, loc), Statut: "confirmee", StatutPaiement: "approved", MontantTotal: 3000},
		{CreatedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, loc), Statut: "en_attente", StatutPaiement: "pending", MontantTotal: 1500},
		// 23:30 UTC on the 8th is already the 9th in Porto-Novo
		{CreatedAt: time.Date(2026, 3, 8, 23, 30, 0, 0, time.UTC), Statut: "annulee", StatutPaiement: "canceled", MontantTotal: 2000},
		{CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, loc), Statut: "confirmee", StatutPaiement: "approved", MontantTotal: 9000},
	}

	points := DailySeries(rows, now, loc, 7)
	if len(points) != 7 {
		t.Fatalf("expected 7 days, got %d", len(points))
	}
	if points[0].Date != "2026-03-04" || points[6].Date != "2026-03-10" || points[6].Label != "10/03" {
		t.Fatalf("unexpected range %s..%s", points[0].Date, points[6].Date)
	}

	today := points[6]
	if today.Reservations != 2 || today.Confirmees != 1 || today.Revenue != 3000 {
		t.Fatalf("unexpected today point %+v", today)
	}
	if points[5].Reservations != 1 || points[5].Revenue != 0 {
		t.Fatalf("cancelled reservation should count without revenue, got %+v", points[5])
	}
	var total int64
	for _, p := range points {
		total += p.Reservations
	}
	if total != 3 {
		t.Fatal("rows outside the window are ignored")
	}
}

func TestFoldCompagnies(t *testing.T) {
	rows := []CompagnieShare{
		{Name: "A", Count: 5}, {Name: "", Count: 2}, {Name: "B", Count: 9},
		{Name: "C", Count: 1}, {Name: "D", Count: 1}, {Name: "E", Count: 3},
		{Name: "F", Count: 4}, {Name: "G", Count: 6}, {Name: "H", Count: 7},
	}
	out := FoldCompagnies(rows, 7)
	if len(out) != 7 {
		t.Fatalf("expected top 7, got %d", len(out))
	}
	if out[0].Name != "B" || out[1].Name != "H" {
		t.Fatalf("unexpected order %+v", out)
	}
	found := false
	for _, c := range out {
		if c.Name == OtherCompagnie && c.Count == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("unnamed rows should appear as %s: %+v", OtherCompagnie, out)
	}
}

func TestStatusDistributionOmitsZero(t *testing.T) {
	var c Counts
	ApplyStatusCounts(&c, []StatusCount{{Statut: "en_attente", Total: 4}, {Statut: "confirmee", Total: 6}})
	if c.Reservations != 10 {
		t.Fatalf("expected 10 reservations, got %d", c.Reservations)
	}
	dist := StatusDistribution(c)
	if len(dist) != 2 || dist[0].Name != "En attente" || dist[1].Value != 6 {
		t.Fatalf("unexpected distribution %+v", dist)
	}
}

type fakeRepo struct {
	calls  int
	scopes []Scope
}

func (f *fakeRepo) CountUsers(context.Context) (int64, error) { return 12, nil }

func (f *fakeRepo) CountTrajets(_ context.Context, s Scope) (int64, error) {
	f.calls++
	f.scopes = append(f.scopes, s)
	return 4, nil
}

func (f *fakeRepo) CountByStatut(context.Context, Scope) ([]StatusCount, error) {
	return []StatusCount{{Statut: "confirmee", Total: 3}, {Statut: "annulee", Total: 1}}, nil
}

func (f *fakeRepo) Revenue(context.Context, Scope) (int64, error) { return 9000, nil }

func (f *fakeRepo) Recent(context.Context, Scope, int) ([]reservations.Reservation, error) {
	return nil, nil
}

func (f *fakeRepo) ActivitySince(context.Context, Scope, time.Time) ([]ActivityRow, error) {
	return nil, nil
}

func (f *fakeRepo) ReservationsByCompagnie(context.Context) ([]CompagnieShare, error) {
	return []CompagnieShare{{Name: "Baobab", Count: 4}}, nil
}

func TestAdminDashboardIsCached(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, cache.NewMemory(), time.UTC, logger.NewNop())

	dash, err := svc.AdminDashboard(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if dash.Counts.Users != 12 || dash.Counts.Reservations != 4 || dash.Revenue != 9000 {
		t.Fatalf("unexpected dashboard %+v", dash.Counts)
	}
	if len(dash.Daily) != SeriesDays || len(dash.Statuts) != 2 || dash.Recent == nil {
		t.Fatalf("unexpected dashboard shape %+v", dash)
	}

	if _, err := svc.AdminDashboard(context.Background()); err != nil {
		t.Fatal(err)
	}
	if repo.calls != 1 {
		t.Fatalf("second call should be served from cache, repo hit %d times", repo.calls)
	}
}

func TestCompanyDashboardScope(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil, time.UTC, logger.NewNop())
	cid := uuid.New()

	staff := identity.Actor{UserID: uuid.New(), Role: identity.RoleCompany, CompagnieID: &cid}
	other := uuid.New()
	dash, err := svc.CompanyDashboard(context.Background(), staff, &other)
	if err != nil {
		t.Fatal(err)
	}
	if dash.CompagnieID != cid || *repo.scopes[0].CompagnieID != cid {
		t.Fatal("staff are always scoped to their own compagnie")
	}

	admin := identity.Actor{UserID: uuid.New(), Role: identity.RoleAdmin}
	if _, err := svc.CompanyDashboard(context.Background(), admin, nil); !errors.Is(err, ErrCompagnieMissing) {
		t.Fatalf("expected ErrCompagnieMissing, got %v", err)
	}
	user := identity.Actor{UserID: uuid.New(), Role: identity.RoleUser}
	if _, err := svc.CompanyDashboard(context.Background(), user, nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
