package initializers

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "API_BASE_URL", "STORAGE_DRIVER", "REQUEST_TIMEOUT", "NOTIFY_CAPACITY", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	cfg := LoadConfig()
	if cfg.Port != "8080" || cfg.StorageDriver != "sqlite" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.RequestTimeout != 15*time.Second || cfg.NotifyCapacity != 50 {
		t.Fatalf("unexpected numeric defaults %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.tablefy.test/api/")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("CACHE_STALE_TIME", "1m")
	t.Setenv("NOTIFY_CAPACITY", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", " https://a.test , ,https://b.test")
	t.Setenv("APP_ENV", "development")

	cfg := LoadConfig()
	if cfg.APIBaseURL != "https://api.tablefy.test/api" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 3*time.Second || cfg.CacheStaleTime != time.Minute {
		t.Fatalf("durations %v %v", cfg.RequestTimeout, cfg.CacheStaleTime)
	}
	if cfg.NotifyCapacity != 50 {
		t.Fatalf("bad number should fall back, got %d", cfg.NotifyCapacity)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.test" {
		t.Fatalf("origins %v", cfg.AllowedOrigins)
	}
	if !cfg.Development() {
		t.Fatal("expected development mode")
	}
}

func TestConnectToStorageMemory(t *testing.T) {
	cfg := &Config{StorageDriver: "memory"}
	s, err := ConnectToStorage(cfg, NewLogger(&Config{Env: "development"}))
	if err != nil || s == nil {
		t.Fatalf("memory storage: %v", err)
	}
	if _, err := ConnectToStorage(&Config{StorageDriver: "floppy"}, NewLogger(cfg)); err == nil {
		t.Fatal("expected unknown driver error")
	}
}
