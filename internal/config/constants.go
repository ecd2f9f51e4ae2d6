package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Background job intervals
const ExpiryJobInterval = 5 * time.Minute

// Offer validation bounds
const (
	MinDurationMinutes = 30
	MaxDurationMinutes = 480
	ExtensionStepMinutes = 30
)

// Retry attempts for the group fan-out transaction
const FanOutTxAttempts = 3
