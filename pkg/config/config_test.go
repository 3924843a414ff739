package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":8443" {
		t.Fatalf("unexpected addr %q", cfg.HTTP.Addr)
	}
	if cfg.Razorpay.Currency != "INR" {
		t.Fatalf("unexpected currency %q", cfg.Razorpay.Currency)
	}
	if cfg.Redis.CatalogTTL != 5*time.Minute {
		t.Fatalf("unexpected ttl %s", cfg.Redis.CatalogTTL)
	}
	if cfg.HTTP.TLS() {
		t.Fatal("expected TLS off by default")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example/db")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_KEY_SECRET", "shh")
	t.Setenv("REDIS_CATALOG_TTL", "30s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.URL != "postgres://example/db" {
		t.Fatalf("unexpected database url %q", cfg.Database.URL)
	}
	if cfg.Redis.Addr != "cache:6379" || cfg.Redis.CatalogTTL != 30*time.Second {
		t.Fatalf("unexpected redis config %+v", cfg.Redis)
	}
	if cfg.Razorpay.KeyID != "rzp_test_key" || cfg.Razorpay.KeySecret != "shh" {
		t.Fatalf("unexpected razorpay config %+v", cfg.Razorpay)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("http:\n  addr: \":9000\"\n  cert_file: certs/server.crt\n  key_file: certs/server.key\nrazorpay:\n  currency: USD\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":9000" || !cfg.HTTP.TLS() {
		t.Fatalf("unexpected http config %+v", cfg.HTTP)
	}
	if cfg.Razorpay.Currency != "USD" {
		t.Fatalf("unexpected currency %q", cfg.Razorpay.Currency)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
