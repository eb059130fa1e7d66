package limits

import (
	"time"

	"github.com/louisbranch/rollplayer/internal/platform/config"
)

// Config holds tier overrides read from the environment.
type Config struct {
	DefaultTier string `env:"ROLLPLAYER_DEFAULT_TIER" envDefault:"stopgap"`

	RestrictedMaxDice       int           `env:"ROLLPLAYER_RESTRICTED_MAX_DICE"       envDefault:"1000"`
	RestrictedMaxExplosions int           `env:"ROLLPLAYER_RESTRICTED_MAX_EXPLOSIONS" envDefault:"5"`
	RestrictedMaxRerolls    int           `env:"ROLLPLAYER_RESTRICTED_MAX_REROLLS"    envDefault:"5"`
	RestrictedTimeout       time.Duration `env:"ROLLPLAYER_RESTRICTED_TIMEOUT"        envDefault:"2s"`

	StopgapMaxDice       int           `env:"ROLLPLAYER_STOPGAP_MAX_DICE"       envDefault:"1000"`
	StopgapMaxExplosions int           `env:"ROLLPLAYER_STOPGAP_MAX_EXPLOSIONS" envDefault:"25"`
	StopgapMaxRerolls    int           `env:"ROLLPLAYER_STOPGAP_MAX_REROLLS"    envDefault:"5"`
	StopgapTimeout       time.Duration `env:"ROLLPLAYER_STOPGAP_TIMEOUT"        envDefault:"2s"`

	ElevatedMaxDice       int           `env:"ROLLPLAYER_ELEVATED_MAX_DICE"       envDefault:"10000"`
	ElevatedMaxExplosions int           `env:"ROLLPLAYER_ELEVATED_MAX_EXPLOSIONS" envDefault:"50"`
	ElevatedMaxRerolls    int           `env:"ROLLPLAYER_ELEVATED_MAX_REROLLS"    envDefault:"30"`
	ElevatedTimeout       time.Duration `env:"ROLLPLAYER_ELEVATED_TIMEOUT"        envDefault:"4s"`
}

// LoadConfig reads tier configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Table builds the policy table described by cfg.
func (c Config) Table() (*Table, error) {
	tier, err := ParseTier(c.DefaultTier)
	if err != nil {
		return nil, err
	}
	return NewTable(tier, map[Tier]Policy{
		Restricted: {
			Caps:    Caps{Dice: c.RestrictedMaxDice, Explosions: c.RestrictedMaxExplosions, Rerolls: c.RestrictedMaxRerolls},
			Timeout: c.RestrictedTimeout,
		},
		Stopgap: {
			Caps:     Caps{Dice: c.StopgapMaxDice, Explosions: c.StopgapMaxExplosions, Rerolls: c.StopgapMaxRerolls},
			Timeout:  c.StopgapTimeout,
			Elevated: true,
		},
		Elevated: {
			Caps:     Caps{Dice: c.ElevatedMaxDice, Explosions: c.ElevatedMaxExplosions, Rerolls: c.ElevatedMaxRerolls},
			Timeout:  c.ElevatedTimeout,
			Elevated: true,
		},
	})
}

// LoadTable reads the environment and builds the policy table.
func LoadTable() (*Table, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Table()
}
