package config

import "testing"

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("REJECT_PIN", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
	if cfg.RejectPIN != "" {
		t.Fatalf("expected empty REJECT_PIN when unset, got %q", cfg.RejectPIN)
	}
}

func TestLoadFallsBackToSaneTimeouts(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "-3")
	t.Setenv("SUPPLIER_CACHE_TTL_SECONDS", "bogus")

	cfg := Load()
	if cfg.UpstreamTimeoutSeconds != 10 {
		t.Fatalf("expected default upstream timeout, got %d", cfg.UpstreamTimeoutSeconds)
	}
	if cfg.SupplierCacheTTLSeconds != 60 {
		t.Fatalf("expected default supplier cache TTL, got %d", cfg.SupplierCacheTTLSeconds)
	}
}
