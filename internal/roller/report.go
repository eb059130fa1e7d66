package roller

import (
	"strconv"
	"time"
)

// Report is the transport view of a Result shared by the gRPC service, the
// MCP tool and the CLI's JSON output.
type Report struct {
	Expression string        `json:"expression"`
	Tier       string        `json:"tier"`
	Seed       string        `json:"seed"`
	Draws      int           `json:"draws"`
	ElapsedMS  float64       `json:"elapsed_ms"`
	Groups     []GroupReport `json:"groups"`
}

// GroupReport is one evaluated group. Results and Original are set only for
// groups made of a single dice term.
type GroupReport struct {
	Expression string       `json:"expression"`
	Value      float64      `json:"value"`
	Text       string       `json:"text"`
	Results    []float64    `json:"results,omitempty"`
	Original   []int        `json:"original,omitempty"`
	Check      *CheckReport `json:"check,omitempty"`
}

// CheckReport is a difficulty check against a group value.
type CheckReport struct {
	Difficulty float64 `json:"difficulty"`
	Success    bool    `json:"success"`
	Margin     float64 `json:"margin"`
}

// NewReport flattens res. The seed is a decimal string so JSON consumers do
// not lose int64 precision.
func NewReport(res Result) Report {
	report := Report{
		Expression: res.Expression,
		Tier:       string(res.Tier),
		Seed:       strconv.FormatInt(res.Seed, 10),
		Draws:      res.Draws,
		ElapsedMS:  float64(res.Elapsed) / float64(time.Millisecond),
		Groups:     make([]GroupReport, len(res.Outcome.Groups)),
	}
	for i, g := range res.Outcome.Groups {
		group := GroupReport{
			Expression: g.Expression,
			Value:      g.Value,
			Text:       g.String(),
		}
		if g.Roll != nil {
			group.Results = append([]float64(nil), g.Roll.Results...)
			group.Original = append([]int(nil), g.Roll.Original...)
		}
		if i < len(res.Checks) {
			c := res.Checks[i]
			group.Check = &CheckReport{Difficulty: c.Difficulty, Success: c.Success, Margin: c.Margin}
		}
		report.Groups[i] = group
	}
	return report
}

// ParseSeed reads a seed written by NewReport. An empty string means no seed.
func ParseSeed(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
