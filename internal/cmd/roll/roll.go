// Package roll parses roll command flags and prints one evaluated
// expression.
package roll

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/louisbranch/rollplayer/internal/core/limits"
	entrypoint "github.com/louisbranch/rollplayer/internal/platform/cmd"
	"github.com/louisbranch/rollplayer/internal/roller"
	rollclient "github.com/louisbranch/rollplayer/internal/services/roll/client"
)

// Config holds roll command configuration.
type Config struct {
	// Addr points at a roll server; empty rolls in process.
	Addr   string `env:"ROLLPLAYER_ROLL_ADDR"`
	Tier   string `env:"ROLLPLAYER_TIER"`
	Locale string `env:"ROLLPLAYER_LOCALE" envDefault:"en-US"`

	Seed       string
	Difficulty *float64
	JSON       bool
	// Expression is the remaining arguments joined by spaces; empty rolls
	// the configured default expression.
	Expression string
}

// ParseConfig parses environ and flags into a Config. environ is a list of
// KEY=value pairs as returned by os.Environ.
func ParseConfig(fs *flag.FlagSet, args []string, environ []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfigFrom(&cfg, environ); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "roll server address (empty rolls in process)")
	fs.StringVar(&cfg.Tier, "tier", cfg.Tier, "limit tier: restricted, stopgap or elevated")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for error messages")
	fs.StringVar(&cfg.Seed, "seed", "", "decimal seed that replays a previous roll")
	fs.BoolVar(&cfg.JSON, "json", false, "print the roll report as JSON")
	fs.Func("difficulty", "check every group value against this difficulty", func(value string) error {
		difficulty, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return errors.New("difficulty must be a number")
		}
		cfg.Difficulty = &difficulty
		return nil
	})
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Expression = strings.TrimSpace(strings.Join(fs.Args(), " "))
	return cfg, nil
}

// Run evaluates cfg.Expression and writes the report to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRoll, func(ctx context.Context) error {
		r, closeRoller, err := newRoller(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeRoller()
		return roll(ctx, cfg, r, out)
	})
}

func newRoller(ctx context.Context, cfg Config) (rollclient.Roller, func(), error) {
	if cfg.Addr == "" {
		engine, _, err := roller.NewFromEnv()
		if err != nil {
			return nil, nil, err
		}
		return rollclient.Local{Engine: engine}, func() {}, nil
	}
	remote, conn, err := rollclient.Dial(ctx, cfg.Addr)
	if err != nil {
		return nil, nil, err
	}
	return remote, func() { _ = conn.Close() }, nil
}

func roll(ctx context.Context, cfg Config, r rollclient.Roller, out io.Writer) error {
	seed, err := roller.ParseSeed(strings.TrimSpace(cfg.Seed))
	if err != nil {
		return fmt.Errorf("seed must be a decimal integer: %w", err)
	}
	report, err := r.Roll(ctx, roller.Request{
		Expression: cfg.Expression,
		Tier:       limits.Tier(cfg.Tier),
		Seed:       seed,
		Difficulty: cfg.Difficulty,
	}, cfg.Locale)
	if err != nil {
		return err
	}

	if cfg.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return writeText(out, report)
}

func writeText(out io.Writer, report roller.Report) error {
	for _, g := range report.Groups {
		line := g.Text
		if g.Check != nil {
			outcome := "failure"
			if g.Check.Success {
				outcome = "success"
			}
			line = fmt.Sprintf("%s [%s vs %s, margin %s]", line, outcome,
				formatNumber(g.Check.Difficulty), formatNumber(g.Check.Margin))
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "seed %s (%s)\n", report.Seed, report.Tier)
	return err
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
