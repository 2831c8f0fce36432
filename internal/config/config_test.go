package config

import "testing"

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
}

func TestLoadAppliesFallbacks(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("SNAPSHOT_PATH", "")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "not-a-number")

	cfg := Load()
	if cfg.AppEnv != "development" {
		t.Fatalf("expected development fallback, got %q", cfg.AppEnv)
	}
	if cfg.SnapshotPath != "data/snapshot.json" {
		t.Fatalf("expected default snapshot path, got %q", cfg.SnapshotPath)
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("expected TTL fallback 480, got %d", cfg.AccessTokenTTLMinutes)
	}
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()
	if cfg.AppEnv != "production" {
		t.Fatalf("expected production, got %q", cfg.AppEnv)
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("expected redis db 3, got %d", cfg.RedisDB)
	}
}
