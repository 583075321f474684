package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	SQLitePath string        `env:"SQLITE_PATH, default=./scholarship.db"`
	DemoUserID string        `env:"DEMO_USER_ID, default=demo-user"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=168h"`

	AIService AIServiceConfig
	Redis     RedisConfig
}

// AIServiceConfig locates the upstream AI backend. The base URL is resolved
// once at startup and injected into the gateway, never read per call.
type AIServiceConfig struct {
	BaseURL string        `env:"AI_SERVICE_URL, default=http://localhost:8000"`
	Timeout time.Duration `env:"AI_SERVICE_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
