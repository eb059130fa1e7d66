// Package mcp parses MCP command flags and serves the dice tools on stdio.
package mcp

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/rollplayer/internal/platform/cmd"
	"github.com/louisbranch/rollplayer/internal/roller"
	mcpservice "github.com/louisbranch/rollplayer/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	// RollAddr points at a roll server; empty rolls in process.
	RollAddr string `env:"ROLLPLAYER_ROLL_ADDR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.RollAddr, "addr", cfg.RollAddr, "roll server address (empty rolls in process)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP adapter on stdio.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		serviceCfg, err := serviceConfig(cfg)
		if err != nil {
			return err
		}
		return mcpservice.Run(ctx, serviceCfg)
	})
}

func serviceConfig(cfg Config) (mcpservice.Config, error) {
	engine, table, err := roller.NewFromEnv()
	if err != nil {
		return mcpservice.Config{}, err
	}
	return mcpservice.Config{RollAddr: cfg.RollAddr, Table: table, Engine: engine}, nil
}
