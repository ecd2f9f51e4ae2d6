package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port            int    `env:"PORT" envDefault:"8080"`
	DatabaseURL     string `env:"DATABASE_URL,required"`
	RedisURL        string `env:"REDIS_URL,required"`
	AuthTokenSecret string `env:"AUTH_TOKEN_SECRET,required"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`

	// Platform accounting floors. MinHourlyRate is the lowest rate a guest may
	// offer on a solo matching; BaseHourlyRate is the group-offer rate used
	// when no cast rank is configured.
	MinHourlyRate  int `env:"MIN_HOURLY_RATE" envDefault:"1500"`
	BaseHourlyRate int `env:"BASE_HOURLY_RATE" envDefault:"3000"`

	// OfferTTLHours > 0 enables the stale-offer expiry job. 0 leaves pending
	// offers open indefinitely.
	OfferTTLHours int `env:"OFFER_TTL_HOURS" envDefault:"0"`

	RateLimitPerMin int `env:"RATE_LIMIT_PER_MIN" envDefault:"60"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) OfferTTL() time.Duration {
	return time.Duration(c.OfferTTLHours) * time.Hour
}

func (c *Config) Validate(isProduction bool) error {
	if c.MinHourlyRate <= 0 {
		return fmt.Errorf("MIN_HOURLY_RATE must be positive")
	}
	if c.BaseHourlyRate < c.MinHourlyRate {
		return fmt.Errorf("BASE_HOURLY_RATE must not be below MIN_HOURLY_RATE")
	}
	if c.OfferTTLHours < 0 {
		return fmt.Errorf("OFFER_TTL_HOURS must not be negative")
	}

	if isProduction {
		if err := validateSecret("AUTH_TOKEN_SECRET", c.AuthTokenSecret); err != nil {
			return err
		}
		if c.OfferTTLHours == 0 {
			log.Warn().Msg("OFFER_TTL_HOURS is 0 in production: pending offers never expire")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
