package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName scopes the roll instruments.
const InstrumentationName = "github.com/louisbranch/rollplayer/roller"

// OutcomeOK is the outcome attribute of successful evaluations.
const OutcomeOK = "ok"

// Recorder records roll evaluations. A nil Recorder records nothing.
type Recorder struct {
	evaluations metric.Int64Counter
	duration    metric.Float64Histogram
	draws       metric.Int64Counter
}

// NewRecorder registers the roll instruments on meter.
func NewRecorder(meter metric.Meter) (*Recorder, error) {
	evaluations, err := meter.Int64Counter("rollplayer.roll.evaluations",
		metric.WithDescription("Roll evaluations by tier and outcome."),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("evaluations counter: %w", err)
	}
	duration, err := meter.Float64Histogram("rollplayer.roll.duration",
		metric.WithDescription("Roll evaluation latency."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("duration histogram: %w", err)
	}
	draws, err := meter.Int64Counter("rollplayer.roll.draws",
		metric.WithDescription("Dice drawn by successful evaluations."),
		metric.WithUnit("{die}"),
	)
	if err != nil {
		return nil, fmt.Errorf("draws counter: %w", err)
	}
	return &Recorder{evaluations: evaluations, duration: duration, draws: draws}, nil
}

// Default builds a recorder on the global meter provider.
func Default() (*Recorder, error) {
	return NewRecorder(otel.Meter(InstrumentationName))
}

// Evaluation is one finished evaluation.
type Evaluation struct {
	Tier    string
	Outcome string
	Elapsed time.Duration
	Draws   int
}

// Record records e.
func (r *Recorder) Record(ctx context.Context, e Evaluation) {
	if r == nil {
		return
	}
	outcome := e.Outcome
	if outcome == "" {
		outcome = OutcomeOK
	}
	attrs := metric.WithAttributes(
		attribute.String("tier", e.Tier),
		attribute.String("outcome", outcome),
	)
	r.evaluations.Add(ctx, 1, attrs)
	r.duration.Record(ctx, e.Elapsed.Seconds(), attrs)
	if outcome == OutcomeOK && e.Draws > 0 {
		r.draws.Add(ctx, int64(e.Draws), metric.WithAttributes(attribute.String("tier", e.Tier)))
	}
}
