package roller

import (
	"context"
	"testing"

	"github.com/louisbranch/rollplayer/internal/core/dice"
	"github.com/louisbranch/rollplayer/internal/core/limits"
)

func TestNewFromEnv(t *testing.T) {
	t.Setenv("ROLLPLAYER_DEFAULT_EXPRESSION", "2d8")
	t.Setenv("ROLLPLAYER_DEFAULT_TIER", "elevated")

	engine, table, err := NewFromEnv()
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	if table.DefaultTier() != limits.Elevated {
		t.Fatalf("default tier = %s, want elevated", table.DefaultTier())
	}
	WithSourceFactory(func(int64) dice.Source { return fixed(2) })(engine)

	res, err := engine.Evaluate(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Expression != "2d8" || res.Tier != limits.Elevated {
		t.Fatalf("result = %s at %s, want 2d8 at elevated", res.Expression, res.Tier)
	}
}

func TestNewFromEnvRejectsBadTier(t *testing.T) {
	t.Setenv("ROLLPLAYER_DEFAULT_TIER", "gold")
	if _, _, err := NewFromEnv(); err == nil {
		t.Fatal("expected error for unknown default tier")
	}
}

func TestNewFromEnvBlankExpressionKeepsDefault(t *testing.T) {
	t.Setenv("ROLLPLAYER_DEFAULT_EXPRESSION", "")

	engine, _, err := NewFromEnv()
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	if engine.defaultExpression != DefaultExpression {
		t.Fatalf("default expression = %q, want %q", engine.defaultExpression, DefaultExpression)
	}
}
