// Package domain holds the MCP tools that expose dice rolling.
//
// Tools take plain JSON inputs, hand them to a roll client and return the
// roll report as structured content.
package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/rollplayer/internal/core/limits"
	"github.com/louisbranch/rollplayer/internal/roller"
	rollclient "github.com/louisbranch/rollplayer/internal/services/roll/client"
)

// rollCallTimeout caps one tool call. It exceeds the longest tier budget so
// tier timeouts are reported as roll errors.
const rollCallTimeout = 5 * time.Second

// RollExpressionInput represents the MCP tool input for rolling an expression.
type RollExpressionInput struct {
	Expression string   `json:"expression" jsonschema:"dice notation such as 4d6kh3+2; several groups are separated by spaces"`
	Tier       string   `json:"tier,omitempty" jsonschema:"limit tier: restricted, stopgap or elevated"`
	Seed       string   `json:"seed,omitempty" jsonschema:"decimal seed that replays a previous roll"`
	Difficulty *float64 `json:"difficulty,omitempty" jsonschema:"checks every group value against this difficulty"`
	Locale     string   `json:"locale,omitempty" jsonschema:"locale for error messages, e.g. en-US or pt-BR"`
}

// RollExpressionTool defines the MCP tool schema for rolling expressions.
func RollExpressionTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_expression",
		Description: "Rolls a dice notation expression with keep, explode, reroll, drop and targeted bonus modifiers",
	}
}

// RollExpressionHandler rolls one expression through r.
func RollExpressionHandler(r rollclient.Roller) mcp.ToolHandlerFor[RollExpressionInput, roller.Report] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollExpressionInput) (*mcp.CallToolResult, roller.Report, error) {
		if r == nil {
			return nil, roller.Report{}, fmt.Errorf("roller is not configured")
		}
		seed, err := roller.ParseSeed(strings.TrimSpace(input.Seed))
		if err != nil {
			return nil, roller.Report{}, fmt.Errorf("seed must be a decimal integer: %w", err)
		}

		runCtx, cancel := context.WithTimeout(ctx, rollCallTimeout)
		defer cancel()

		report, err := r.Roll(runCtx, roller.Request{
			Expression: input.Expression,
			Tier:       limits.Tier(input.Tier),
			Seed:       seed,
			Difficulty: input.Difficulty,
		}, strings.TrimSpace(input.Locale))
		if err != nil {
			return nil, roller.Report{}, err
		}

		lines := make([]string, len(report.Groups))
		for i, g := range report.Groups {
			lines[i] = g.Text
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: strings.Join(lines, "\n")},
			},
		}, report, nil
	}
}
