package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRememberLoadsOnce(t *testing.T) {
	ctx := context.Background()
	svc := NewMemory()
	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"Cotonou", "Parakou"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Remember(ctx, svc, "busbenin:destinations:all", time.Minute, load)
		if err != nil {
			t.Fatalf("remember: %v", err)
		}
		if len(got) != 2 || got[1] != "Parakou" {
			t.Fatalf("unexpected value %v", got)
		}
	}
	if calls != 1 {
		t.Fatalf("loader called %d times", calls)
	}
}

func TestRememberNilServiceAndErrors(t *testing.T) {
	boom := errors.New("db down")
	if _, err := Remember(context.Background(), nil, "k", time.Minute, func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	v, err := Remember(context.Background(), nil, "k", time.Minute, func() (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Fatalf("nil service: %v %v", v, err)
	}
}

func TestInvalidatePattern(t *testing.T) {
	ctx := context.Background()
	svc := NewMemory()
	_ = svc.Set(ctx, "busbenin:trajets:home", 1, 0)
	_ = svc.Set(ctx, "busbenin:trajets:search:depart:x", 1, 0)
	_ = svc.Set(ctx, "busbenin:compagnies:list", 1, 0)

	Invalidate(ctx, svc, "busbenin:trajets:*")

	if svc.Exists(ctx, "busbenin:trajets:home") || svc.Exists(ctx, "busbenin:trajets:search:depart:x") {
		t.Fatal("trajet keys survived invalidation")
	}
	if !svc.Exists(ctx, "busbenin:compagnies:list") {
		t.Fatal("unrelated key was removed")
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory().(*memory)
	now := time.Unix(1000, 0)
	m.now = func() time.Time { return now }

	_ = m.Set(ctx, "k", "v", time.Second)
	if !m.Exists(ctx, "k") {
		t.Fatal("fresh key missing")
	}
	now = now.Add(2 * time.Second)
	var out string
	if err := m.Get(ctx, "k", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after ttl, got %v", err)
	}
}
