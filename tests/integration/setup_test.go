//go:build integration

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"metalscale/internal/cache"
	"metalscale/internal/config"
	"metalscale/internal/db"
	"metalscale/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// TestEnv holds all test dependencies
type TestEnv struct {
	DB          *sql.DB
	RedisClient *redis.Client
	Router      *gin.Engine
	Config      *config.Config
}

// SetupTestEnv initializes the test environment
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	cfg := loadTestConfig()

	database := db.Init(&cfg.DB)
	if database == nil {
		t.Fatal("Failed to connect to test database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.Migrate(ctx, database); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := cache.SetupRedis(&cfg.Redis)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}
	redisClient.FlushDB(ctx)

	// Fresh tables for every test
	database.Exec("TRUNCATE TABLE plans RESTART IDENTITY CASCADE")
	database.Exec("TRUNCATE TABLE users RESTART IDENTITY CASCADE")

	return &TestEnv{
		DB:          database,
		RedisClient: redisClient,
		Router:      handler.SetupHandler(database, redisClient, cfg),
		Config:      cfg,
	}
}

// Cleanup cleans up the test environment
func (env *TestEnv) Cleanup(t *testing.T) {
	t.Helper()

	if env.DB != nil {
		env.DB.Exec("TRUNCATE TABLE plans RESTART IDENTITY CASCADE")
		env.DB.Exec("TRUNCATE TABLE users RESTART IDENTITY CASCADE")
		env.DB.Close()
	}

	if env.RedisClient != nil {
		env.RedisClient.FlushDB(context.Background())
		env.RedisClient.Close()
	}
}

// ResetRateLimiter clears throttling state so multi-step credential flows
// in a single test do not trip the strict login limiter.
func (env *TestEnv) ResetRateLimiter() {
	ctx := context.Background()
	keys, err := env.RedisClient.Keys(ctx, "rate_limiter:*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	env.RedisClient.Del(ctx, keys...)
}

// DoJSON performs a request against the router and decodes the JSON response
func (env *TestEnv) DoJSON(t *testing.T, method, path, token, body string, out any) int {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)

	if out != nil && w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
		}
	}

	return w.Code
}

// loadTestConfig loads test configuration with defaults
func loadTestConfig() *config.Config {
	return &config.Config{
		AppName: "integration-test",
		AppEnv:  "test",
		AppPort: getEnv("APP_PORT", "3001"),
		DB: config.DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "metalscale_test"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: config.RedisConfig{
			Host:          getEnv("REDIS_HOST", "localhost"),
			Port:          getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnv("REDIS_DB", "1"),
		},
		JWT: config.JWTConfig{
			Secret: getEnv("JWT_SECRET", "test-secret-key-for-integration"),
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
