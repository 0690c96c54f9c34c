package reservations

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"busbenin/internal/notifications"
	"busbenin/pkg/fedapay"
	"busbenin/pkg/logger"

	"github.com/gin-gonic/gin"
)

func newWebhookEngine(svc Service, secret string, now time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	wc := NewWebhookController(svc, secret, logger.NewNop())
	wc.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/payments/webhook", wc.Handle)
	return r
}

func postWebhook(r *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(fedapay.SignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookConfirmsSignedEvent(t *testing.T) {
	f := newFixture(t)
	res := f.create(t)
	f.pay(t, res)
	f.gateway.status = fedapay.StatusApproved

	const secret = "wh_secret"
	now := time.Unix(1_760_000_000, 0)
	body := []byte(`{"name":"transaction.approved","entity":{"id":101,"status":"approved"}}`)
	r := newWebhookEngine(f.svc, secret, now)

	if w := postWebhook(r, body, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("unsigned event: expected 401, got %d", w.Code)
	}
	if w := postWebhook(r, body, fedapay.Sign(body, "other", now)); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: expected 401, got %d", w.Code)
	}

	w := postWebhook(r, body, fedapay.Sign(body, secret, now))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if f.repo.get(res.ID).Statut != StatutConfirmee {
		t.Fatal("webhook should confirm the reservation")
	}

	// FedaPay retries deliveries
	postWebhook(r, body, fedapay.Sign(body, secret, now))
	if n := f.publisher.count(notifications.EventReservationConfirmed); n != 1 {
		t.Fatalf("expected one confirmed event after a duplicate delivery, got %d", n)
	}
}

func TestWebhookIgnoresUnknownTransaction(t *testing.T) {
	f := newFixture(t)
	r := newWebhookEngine(f.svc, "", time.Now())

	w := postWebhook(r, []byte(`{"name":"transaction.approved","entity":{"id":"555"}}`), "")
	if w.Code != http.StatusOK {
		t.Fatalf("unknown transactions are acknowledged, got %d", w.Code)
	}

	w = postWebhook(r, []byte(`{"name":"transaction.approved","entity":{}}`), "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("event without transaction: expected 400, got %d", w.Code)
	}
}

func TestWebhookUpstreamFailureAsksForRetry(t *testing.T) {
	f := newFixture(t)
	res := f.create(t)
	f.pay(t, res)
	f.gateway.fetchErr = context.DeadlineExceeded

	r := newWebhookEngine(f.svc, "", time.Now())
	w := postWebhook(r, []byte(`{"entity":{"id":101}}`), "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 so the event is redelivered, got %d", w.Code)
	}
}
