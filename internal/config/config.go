// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Fields map to environment
// variables through cleanenv tags; a .env file in the working directory is
// loaded first when present.
type Config struct {
	Env  string `env:"APP_ENV" env-default:"local"`
	Port string `env:"APP_PORT" env-default:"8080"`

	DB        DBConfig
	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig

	JWTSecret      string        `env:"JWT_SECRET"`
	AccessTTL      time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	SessionTTL     time.Duration `env:"SESSION_TTL" env-default:"720h"`
	BcryptCost     int           `env:"BCRYPT_COST" env-default:"10"`
	AdminEmail     string        `env:"ADMIN_EMAIL" env-default:"admin@unikiala.com"`
	AdminPassword  string        `env:"ADMIN_PASSWORD" env-default:"admin123"`
	ResetTokenTTL  time.Duration `env:"RESET_TOKEN_TTL" env-default:"1h"`
	ResetURLPrefix string        `env:"RESET_URL_PREFIX" env-default:"https://unikiala.com/reset?token="`

	Checkout CheckoutConfig

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	APIKey       string `env:"API_KEY"`

	RabbitURL   string   `env:"RABBITMQ_URL"`
	CORSOrigins []string `env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
}

// DBConfig describes the hosted backend database. An empty Host means the
// backend is not configured and the service runs on local state only.
type DBConfig struct {
	User string `env:"DB_USER" env-default:"root"`
	Pass string `env:"DB_PASS"`
	Host string `env:"DB_HOST"`
	Port string `env:"DB_PORT" env-default:"3306"`
	Name string `env:"DB_NAME" env-default:"unikiala"`
}

// CheckoutConfig holds the delivery fees in AOA and the simulated payment
// approval delay.
type CheckoutConfig struct {
	FeeSameRegion   int64         `env:"DELIVERY_FEE_SAME_REGION" env-default:"2000"`
	FeeOtherRegion  int64         `env:"DELIVERY_FEE_OTHER_REGION" env-default:"5000"`
	PaymentSimDelay time.Duration `env:"PAYMENT_SIM_DELAY" env-default:"3s"`
}

// Configured reports whether a hosted database was provided.
func (d DBConfig) Configured() bool { return d.Host != "" }

// AIKey returns the model API key, preferring GEMINI_API_KEY.
func (c Config) AIKey() string {
	if c.GeminiAPIKey != "" {
		return c.GeminiAPIKey
	}
	return c.APIKey
}

// localJWTSecret signs tokens on developer machines only. Any other APP_ENV
// must set JWT_SECRET.
const localJWTSecret = "unikiala-local-dev-secret"

// Load reads .env (if any) and the process environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}
	if cfg.JWTSecret == "" {
		if cfg.Env != "local" {
			return Config{}, fmt.Errorf("config: JWT_SECRET is required when APP_ENV=%s", cfg.Env)
		}
		cfg.JWTSecret = localJWTSecret
	}
	cfg.Cache.normalize()
	cfg.RateLimit.normalize()
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return Config{}, fmt.Errorf("config: invalid BCRYPT_COST %d", cfg.BcryptCost)
	}
	if cfg.Checkout.FeeSameRegion < 0 || cfg.Checkout.FeeOtherRegion < 0 {
		return Config{}, fmt.Errorf("config: delivery fees must not be negative")
	}
	return cfg, nil
}

// MustLoad is Load that panics on error, for use in main.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
