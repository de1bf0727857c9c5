package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret       string        `env:"JWT_SECRET, required"`
	TokenTTLMinutes int           `env:"TOKEN_TTL_MINUTES, default=30"`
	DefaultAdminPwd string        `env:"DEFAULT_ADMIN_PASSWORD, default=admin123"`
	CORSOrigins     []string      `env:"CORS_ORIGINS, default=http://localhost:5173"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Upstream UpstreamConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=esop_portal"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// UpstreamConfig points at the appliance-management API. URL and APIKey have
// no defaults: starting without them is a configuration error.
type UpstreamConfig struct {
	URL             string        `env:"UPSTREAM_URL, required"`
	APIKey          string        `env:"UPSTREAM_API_KEY, required"`
	Timeout         time.Duration `env:"UPSTREAM_TIMEOUT, default=10s"`
	CacheTTL        time.Duration `env:"UPSTREAM_CACHE_TTL, default=30s"`
	RefreshInterval time.Duration `env:"APPLIANCE_REFRESH_INTERVAL, default=5m"`
}

// TokenTTL returns the access-token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// Load reads configuration from environment variables using go-envconfig.
// Missing required values (JWT secret, upstream URL and API key) surface as
// an error.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
