package fedapay

import (
	"errors"
	"testing"
	"time"
)

func TestVerifySignature(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	body := []byte(`{"name":"transaction.approved","entity":{"id":4821,"status":"approved"}}`)
	header := Sign(body, "whsec", now)

	if err := VerifySignature(body, header, "whsec", DefaultSignatureTolerance, now.Add(time.Minute)); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}

	cases := []struct {
		name   string
		body   []byte
		header string
		secret string
		at     time.Time
		want   error
	}{
		{"empty header", body, "", "whsec", now, ErrMissingSignature},
		{"no signature part", body, "t=1760000000", "whsec", now, ErrMissingSignature},
		{"wrong secret", body, header, "other", now, ErrInvalidSignature},
		{"tampered body", []byte(`{}`), header, "whsec", now, ErrInvalidSignature},
		{"too old", body, header, "whsec", now.Add(10 * time.Minute), ErrSignatureExpired},
	}
	for _, tc := range cases {
		if err := VerifySignature(tc.body, tc.header, tc.secret, DefaultSignatureTolerance, tc.at); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"name":"transaction.approved","entity":{"id":4821,"status":"approved"}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ev.Entity.ID != "4821" || ev.Entity.Status != StatusApproved {
		t.Fatalf("unexpected event %+v", ev)
	}

	if _, err := ParseEvent([]byte(`{"name":"ping"}`)); !errors.Is(err, ErrNoTransaction) {
		t.Fatalf("expected ErrNoTransaction, got %v", err)
	}
}
