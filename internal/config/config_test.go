package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("CLEANUP_SCHEDULE", "")
	t.Setenv("CLEANUP_GRACE", "")

	cfg := FromEnv()
	if cfg.Port != "3000" {
		t.Fatalf("expected default port 3000, got %q", cfg.Port)
	}
	if cfg.StoreBackend != BackendMemory {
		t.Fatalf("expected memory backend by default, got %q", cfg.StoreBackend)
	}
	if cfg.CleanupSchedule != "0 * * * * *" {
		t.Fatalf("unexpected default schedule %q", cfg.CleanupSchedule)
	}
	if cfg.CleanupGrace != 10*time.Minute {
		t.Fatalf("unexpected default grace %s", cfg.CleanupGrace)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "SCYLLA")
	t.Setenv("SCYLLA_HOSTS", "10.0.0.1, 10.0.0.2,")
	t.Setenv("SCYLLA_KEYSPACE", "shop")
	t.Setenv("SCYLLA_KS_ORDERS", "shop_orders")
	t.Setenv("CLEANUP_GRACE", "bogus")
	t.Setenv("SECURE_COOKIES", "true")

	cfg := FromEnv()
	if cfg.StoreBackend != BackendScylla {
		t.Fatalf("expected scylla backend, got %q", cfg.StoreBackend)
	}
	if len(cfg.ScyllaHosts) != 2 || cfg.ScyllaHosts[1] != "10.0.0.2" {
		t.Fatalf("unexpected hosts %v", cfg.ScyllaHosts)
	}
	if cfg.ScyllaKeyspaces.Products != "shop" || cfg.ScyllaKeyspaces.Orders != "shop_orders" {
		t.Fatalf("unexpected keyspaces %+v", cfg.ScyllaKeyspaces)
	}
	if cfg.CleanupGrace != 10*time.Minute {
		t.Fatalf("invalid duration should fall back, got %s", cfg.CleanupGrace)
	}
	if !cfg.SecureCookies {
		t.Fatal("expected secure cookies")
	}
}
