package config

import (
	"reflect"
	"testing"
	"time"
)

var keys = []string{
	"SERVER_PORT", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"RESULTS_BACKEND", "RESULTS_TTL_SECONDS", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"QUESTION_PACKS_DIR", "LEADERBOARD_TOP_N", "DEADLINE_BUFFER_MS", "EVENT_BUFFER", "ALLOWED_ORIGINS",
}

// clearEnv blanks every variable Load reads; empty counts as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ServerPort != "8080" || cfg.Address() != ":8080" {
		t.Errorf("port = %q, address = %q", cfg.ServerPort, cfg.Address())
	}
	if cfg.ResultsBackend != BackendMemory {
		t.Errorf("ResultsBackend = %q, want memory", cfg.ResultsBackend)
	}
	if cfg.LeaderboardTopN != 5 {
		t.Errorf("LeaderboardTopN = %d, want 5", cfg.LeaderboardTopN)
	}
	if cfg.DeadlineBuffer != time.Second {
		t.Errorf("DeadlineBuffer = %v, want 1s", cfg.DeadlineBuffer)
	}
	if cfg.EventBuffer != 256 {
		t.Errorf("EventBuffer = %d, want 256", cfg.EventBuffer)
	}
	if cfg.ResultsTTL != 0 {
		t.Errorf("ResultsTTL = %v, want 0", cfg.ResultsTTL)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"*"}) {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("RESULTS_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("RESULTS_TTL_SECONDS", "600")
	t.Setenv("LEADERBOARD_TOP_N", "10")
	t.Setenv("DEADLINE_BUFFER_MS", "250")
	t.Setenv("QUESTION_PACKS_DIR", "/srv/packs")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ServerPort != "9000" {
		t.Errorf("ServerPort = %q", cfg.ServerPort)
	}
	if cfg.ResultsBackend != BackendRedis {
		t.Errorf("ResultsBackend = %q", cfg.ResultsBackend)
	}
	if cfg.Redis.Addr != "cache:6379" || cfg.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if cfg.ResultsTTL != 10*time.Minute {
		t.Errorf("ResultsTTL = %v", cfg.ResultsTTL)
	}
	if cfg.LeaderboardTopN != 10 {
		t.Errorf("LeaderboardTopN = %d", cfg.LeaderboardTopN)
	}
	if cfg.DeadlineBuffer != 250*time.Millisecond {
		t.Errorf("DeadlineBuffer = %v", cfg.DeadlineBuffer)
	}
	if cfg.QuestionPacksDir != "/srv/packs" {
		t.Errorf("QuestionPacksDir = %q", cfg.QuestionPacksDir)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric redis db", "REDIS_DB", "zero"},
		{"negative top n", "LEADERBOARD_TOP_N", "-1"},
		{"fractional buffer", "DEADLINE_BUFFER_MS", "1.5"},
		{"unknown backend", "RESULTS_BACKEND", "cassandra"},
		{"no origins", "ALLOWED_ORIGINS", " , "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load with %s=%q succeeded, want error", tt.key, tt.value)
			}
		})
	}
}
