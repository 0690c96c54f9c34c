package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestReleaseModeWritesJSON(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	l := NewWithWriter("info", &buf)
	l.LogReservationCreated(context.Background(), "r-1", "t-1", "u-1", 3000)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "Reservation Created" || entry["reservation_id"] != "r-1" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry["montant_total"].(float64) != 3000 {
		t.Fatalf("unexpected amount %v", entry["montant_total"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("error", &buf)
	l.LogReconcileFailed(context.Background(), "r-1", 2, errors.New("timeout"))
	if buf.Len() != 0 {
		t.Fatalf("warn entry should be filtered at error level, got %q", buf.String())
	}
}

func TestGetLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		if got := getLogLevel(in); got != want {
			t.Fatalf("getLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestHTTPRequestLevelFollowsStatus(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	l := NewWithWriter("info", &buf)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	})
	engine.GET("/trajets/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trajets/abc?x=1", nil))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "WARN" || entry["route"] != "/trajets/:id" || entry["query"] != "x=1" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry["status"].(float64) != 404 {
		t.Fatalf("unexpected status %v", entry["status"])
	}
}
