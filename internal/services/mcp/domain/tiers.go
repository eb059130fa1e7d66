package domain

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/rollplayer/internal/core/limits"
)

// TierListInput takes no arguments.
type TierListInput struct{}

// TierSummary describes one tier's limits.
type TierSummary struct {
	Name          string  `json:"name" jsonschema:"tier name"`
	Default       bool    `json:"default" jsonschema:"whether requests without a tier use it"`
	Elevated      bool    `json:"elevated" jsonschema:"whether the tier grants elevated permissions"`
	MaxDice       int     `json:"max_dice" jsonschema:"most dice rolled in one dice term"`
	MaxExplosions int     `json:"max_explosions" jsonschema:"most chained explosions per die"`
	MaxRerolls    int     `json:"max_rerolls" jsonschema:"most reroll rounds per dice term"`
	TimeoutMS     float64 `json:"timeout_ms" jsonschema:"evaluation time budget in milliseconds"`
}

// TierListResult lists every tier.
type TierListResult struct {
	Tiers []TierSummary `json:"tiers" jsonschema:"tiers from most to least restricted"`
}

// TierListTool defines the MCP tool schema for listing tiers.
func TierListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_tiers",
		Description: "Lists the limit tiers and their caps",
	}
}

// TierListHandler reports the tiers of table.
func TierListHandler(table *limits.Table) mcp.ToolHandlerFor[TierListInput, TierListResult] {
	if table == nil {
		table = limits.DefaultTable()
	}
	return func(context.Context, *mcp.CallToolRequest, TierListInput) (*mcp.CallToolResult, TierListResult, error) {
		result := TierListResult{}
		for _, tier := range limits.Tiers() {
			policy, err := table.Policy(tier)
			if err != nil {
				return nil, TierListResult{}, err
			}
			result.Tiers = append(result.Tiers, TierSummary{
				Name:          string(tier),
				Default:       tier == table.DefaultTier(),
				Elevated:      policy.Elevated,
				MaxDice:       policy.Caps.Dice,
				MaxExplosions: policy.Caps.Explosions,
				MaxRerolls:    policy.Caps.Rerolls,
				TimeoutMS:     float64(policy.Timeout.Milliseconds()),
			})
		}
		return nil, result, nil
	}
}
