package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ResultsBackend string
	ResultsTTL     time.Duration
	Redis          RedisConfig

	QuestionPacksDir string
	LeaderboardTopN  int
	DeadlineBuffer   time.Duration
	EventBuffer      int
	AllowedOrigins   []string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func Load() (*Config, error) {
	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	ttl, err := getInt("RESULTS_TTL_SECONDS", 0)
	if err != nil {
		return nil, err
	}
	topN, err := getInt("LEADERBOARD_TOP_N", 5)
	if err != nil {
		return nil, err
	}
	bufferMS, err := getInt("DEADLINE_BUFFER_MS", 1000)
	if err != nil {
		return nil, err
	}
	eventBuffer, err := getInt("EVENT_BUFFER", 256)
	if err != nil {
		return nil, err
	}

	origins := splitList(getEnv("ALLOWED_ORIGINS", "*"))
	if len(origins) == 0 {
		return nil, fmt.Errorf("invalid ALLOWED_ORIGINS value: no origins")
	}

	backend := strings.ToLower(getEnv("RESULTS_BACKEND", BackendMemory))
	switch backend {
	case BackendMemory, BackendPostgres, BackendRedis:
	default:
		return nil, fmt.Errorf("invalid RESULTS_BACKEND value %q", backend)
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "quizgame"),

		ResultsBackend: backend,
		ResultsTTL:     time.Duration(ttl) * time.Second,
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},

		QuestionPacksDir: getEnv("QUESTION_PACKS_DIR", ""),
		LeaderboardTopN:  topN,
		DeadlineBuffer:   time.Duration(bufferMS) * time.Millisecond,
		EventBuffer:      eventBuffer,
		AllowedOrigins:   origins,
	}, nil
}

func (c *Config) Address() string {
	return ":" + c.ServerPort
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s value: must not be negative", key)
	}
	return n, nil
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
