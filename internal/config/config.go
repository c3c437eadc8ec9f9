// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// EdgeMarginFt is how close (feet) to a zone edge counts as borderline.
	EdgeMarginFt float64 `koanf:"edge_margin_ft"`

	// IncludeBallDiameter widens the effective plate to include the ball.
	IncludeBallDiameter bool `koanf:"include_ball_diameter"`

	// DefaultSeason is served when a request omits ?season. Zero means
	// "latest loaded season".
	DefaultSeason int `koanf:"default_season"`

	// PostgresDSN enables the PostgreSQL store when non-empty; otherwise the
	// in-memory store is used.
	PostgresDSN string `koanf:"postgres_dsn"`

	// RedisAddr enables the veteran score cache when non-empty.
	RedisAddr string `koanf:"redis_addr"`

	// ScoreCacheTTLSeconds bounds cached veteran score lifetime.
	ScoreCacheTTLSeconds int `koanf:"score_cache_ttl_seconds"`

	// StatsAPIBaseURL overrides the MLB Stats API endpoint (tests).
	StatsAPIBaseURL string `koanf:"statsapi_base_url"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		EdgeMarginFt:         0.20,
		IncludeBallDiameter:  true,
		DefaultSeason:        0,
		ScoreCacheTTLSeconds: 21600,
	}
}
