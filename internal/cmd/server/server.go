// Package server parses roll server flags and starts the gRPC roll service.
package server

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/rollplayer/internal/platform/cmd"
	"github.com/louisbranch/rollplayer/internal/roller"
	rollapp "github.com/louisbranch/rollplayer/internal/services/roll/app"
)

// Config holds roll server command configuration.
type Config struct {
	Port int    `env:"ROLLPLAYER_PORT" envDefault:"8090"`
	Addr string `env:"ROLLPLAYER_ADDR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The roll server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The roll server listen address (overrides -port)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the roll server and blocks until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		engine, _, err := roller.NewFromEnv()
		if err != nil {
			return err
		}
		srv, err := newServer(cfg, engine)
		if err != nil {
			return err
		}
		return srv.Serve(ctx)
	})
}

func newServer(cfg Config, engine *roller.Engine) (*rollapp.Server, error) {
	if cfg.Addr != "" {
		return rollapp.NewWithAddr(cfg.Addr, engine)
	}
	return rollapp.New(cfg.Port, engine)
}
