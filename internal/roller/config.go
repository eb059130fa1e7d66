package roller

import (
	"fmt"
	"strings"

	"github.com/louisbranch/rollplayer/internal/core/limits"
	"github.com/louisbranch/rollplayer/internal/platform/config"
	"github.com/louisbranch/rollplayer/internal/platform/telemetry/metrics"
)

// Config holds engine settings read from the environment.
type Config struct {
	DefaultExpression string `env:"ROLLPLAYER_DEFAULT_EXPRESSION" envDefault:"1d20"`
}

// LoadConfig reads engine configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewFromEnv builds an engine from the environment: the tier table, the
// default expression and metrics on the global meter provider.
func NewFromEnv() (*Engine, *limits.Table, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	table, err := limits.LoadTable()
	if err != nil {
		return nil, nil, fmt.Errorf("load tier table: %w", err)
	}
	rec, err := metrics.Default()
	if err != nil {
		return nil, nil, fmt.Errorf("register metrics: %w", err)
	}
	opts := []Option{WithTable(table), WithMetrics(rec)}
	if expression := strings.TrimSpace(cfg.DefaultExpression); expression != "" {
		opts = append(opts, WithDefaultExpression(expression))
	}
	return New(opts...), table, nil
}
