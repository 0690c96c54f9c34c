package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := newLoader("").load()

	if cfg.GetAPIBasePath() != "/api/v1" {
		t.Fatalf("unexpected base path %q", cfg.GetAPIBasePath())
	}
	if cfg.FedaPay.Currency != "XOF" || cfg.FedaPay.Country != "BJ" {
		t.Fatalf("unexpected payment defaults: %+v", cfg.FedaPay)
	}
	if cfg.Reconcile.MaxAttempts <= 0 || cfg.Reconcile.InitialDelay <= 0 {
		t.Fatalf("reconciler must have bounded attempts and a delay: %+v", cfg.Reconcile)
	}
	if !strings.Contains(cfg.Database.DSN, "dbname=busbenin_db") {
		t.Fatalf("unexpected postgres dsn %q", cfg.Database.DSN)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RECONCILE_MAX_ATTEMPTS", "3")
	t.Setenv("RESERVATION_PENDING_TTL", "2h")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg := newLoader("").load()

	if cfg.GetServerAddress() != ":9090" {
		t.Fatalf("got %q", cfg.GetServerAddress())
	}
	if cfg.Reconcile.MaxAttempts != 3 {
		t.Fatalf("got %d attempts", cfg.Reconcile.MaxAttempts)
	}
	if cfg.Expiry.PendingTTL != 2*time.Hour {
		t.Fatalf("got ttl %s", cfg.Expiry.PendingTTL)
	}
	if len(cfg.Broker.KafkaBrokers) != 2 || cfg.Broker.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("got brokers %v", cfg.Broker.KafkaBrokers)
	}
}

func TestMySQLDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_PORT", "")

	cfg := newLoader("").load()

	if cfg.Database.Port != "3306" {
		t.Fatalf("expected default mysql port, got %s", cfg.Database.Port)
	}
	if !strings.Contains(cfg.Database.DSN, "tcp(localhost:3306)/busbenin_db") {
		t.Fatalf("unexpected mysql dsn %q", cfg.Database.DSN)
	}
	if !strings.Contains(cfg.Database.DSN, "parseTime=true") {
		t.Fatalf("mysql dsn must parse time: %q", cfg.Database.DSN)
	}
}

func TestConfigFileOverridesFallbacks(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(file, []byte("fedapay_env: live\nreconcile_batch_size: 7\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := newLoader(file).load()

	if cfg.FedaPay.Environment != "live" {
		t.Fatalf("got env %q", cfg.FedaPay.Environment)
	}
	if cfg.Reconcile.BatchSize != 7 {
		t.Fatalf("got batch %d", cfg.Reconcile.BatchSize)
	}
}

func TestLocationFallback(t *testing.T) {
	cfg := &Config{TimeZone: "Not/AZone"}
	_, offset := time.Now().In(cfg.Location()).Zone()
	if offset != 3600 {
		t.Fatalf("expected UTC+1 fallback, got %d", offset)
	}
}
