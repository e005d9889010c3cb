package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "POSTS_PER_PAGE", "INDEX_CACHE_TTL", "CSRF_ENABLED", "LOGIN_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("DBDriver = %q, want postgres", cfg.DBDriver)
	}
	if cfg.PostsPerPage != 10 {
		t.Errorf("PostsPerPage = %d, want 10", cfg.PostsPerPage)
	}
	if cfg.IndexCacheTTL != 20*time.Second {
		t.Errorf("IndexCacheTTL = %v, want 20s", cfg.IndexCacheTTL)
	}
	if !cfg.CSRFEnabled {
		t.Error("CSRFEnabled should default to true")
	}
	if cfg.LoginURL != "/auth/login/" {
		t.Errorf("LoginURL = %q", cfg.LoginURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("POSTS_PER_PAGE", "25")
	t.Setenv("INDEX_CACHE_TTL", "45")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CSRF_ENABLED", "false")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg := Load()
	if cfg.PostsPerPage != 25 {
		t.Errorf("PostsPerPage = %d, want 25", cfg.PostsPerPage)
	}
	if cfg.IndexCacheTTL != 45*time.Second {
		t.Errorf("IndexCacheTTL = %v, want 45s", cfg.IndexCacheTTL)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v, want 2h", cfg.SessionTTL)
	}
	if cfg.CSRFEnabled {
		t.Error("CSRFEnabled should be false")
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %q", cfg.DBDriver)
	}
}

func TestGetEnvFallsBackOnGarbage(t *testing.T) {
	t.Setenv("YATUBE_TEST_INT", "ten")
	if got := getEnvInt("YATUBE_TEST_INT", 7); got != 7 {
		t.Errorf("getEnvInt = %d, want 7", got)
	}
	t.Setenv("YATUBE_TEST_DUR", "soon")
	if got := getEnvDuration("YATUBE_TEST_DUR", time.Minute); got != time.Minute {
		t.Errorf("getEnvDuration = %v, want 1m", got)
	}
}

func TestBodyLimit(t *testing.T) {
	if got := bodyLimit(5 << 20); got != "6144K" {
		t.Errorf("bodyLimit = %q, want 6144K", got)
	}
}
