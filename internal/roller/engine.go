// Package roller evaluates dice expressions under a tier's limits and time
// budget.
//
// Engine.Roll runs the whole pipeline for one request: parse, build, check
// against the tier policy, roll and combine. The pipeline runs in its own
// goroutine with a per-request random source; the caller waits for it or
// for the tier's deadline, whichever comes first. A request that runs out
// of time fails with a timeout error and its partial result is dropped.
package roller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/rollplayer/internal/core/arith"
	"github.com/louisbranch/rollplayer/internal/core/check"
	"github.com/louisbranch/rollplayer/internal/core/dice"
	"github.com/louisbranch/rollplayer/internal/core/limits"
	"github.com/louisbranch/rollplayer/internal/core/notation"
	apperrors "github.com/louisbranch/rollplayer/internal/errors"
	"github.com/louisbranch/rollplayer/internal/platform/telemetry/metrics"
	"github.com/louisbranch/rollplayer/internal/random"
)

// DefaultExpression is rolled when a request has no expression.
const DefaultExpression = "1d20"

const tracerName = "github.com/louisbranch/rollplayer/roller"

// Request is one roll request.
type Request struct {
	Expression string
	// Tier selects the policy; empty means the table's default tier.
	Tier limits.Tier
	// Seed replays a previous roll when set.
	Seed *int64
	// Difficulty, when set, checks every group value against it.
	Difficulty *float64
}

// Result is a completed evaluation.
type Result struct {
	Expression string
	Outcome    arith.Outcome
	Checks     []check.Result
	Tier       limits.Tier
	Seed       int64
	Draws      int
	Elapsed    time.Duration
}

// Engine evaluates requests. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	table             *limits.Table
	newSource         func(seed int64) dice.Source
	newSeed           func() (int64, error)
	metrics           *metrics.Recorder
	tracer            trace.Tracer
	defaultExpression string
}

// Option configures an Engine.
type Option func(*Engine)

// WithTable sets the tier policy table.
func WithTable(table *limits.Table) Option {
	return func(e *Engine) {
		e.table = table
	}
}

// WithSourceFactory sets how each request's random source is created.
func WithSourceFactory(fn func(seed int64) dice.Source) Option {
	return func(e *Engine) {
		e.newSource = fn
	}
}

// WithSeedFunc sets how seeds are chosen for requests without one.
func WithSeedFunc(fn func() (int64, error)) Option {
	return func(e *Engine) {
		e.newSeed = fn
	}
}

// WithMetrics records every evaluation on rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(e *Engine) {
		e.metrics = rec
	}
}

// WithTracer sets the tracer used for evaluation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// WithDefaultExpression sets the expression rolled for empty requests.
func WithDefaultExpression(expression string) Option {
	return func(e *Engine) {
		e.defaultExpression = expression
	}
}

// New creates an engine with the built-in tier table unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{
		table:             limits.DefaultTable(),
		newSource:         func(seed int64) dice.Source { return random.NewSource(seed) },
		newSeed:           random.NewSeed,
		tracer:            otel.Tracer(tracerName),
		defaultExpression: DefaultExpression,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate rolls expression at tier with a fresh seed.
func (e *Engine) Evaluate(ctx context.Context, expression string, tier limits.Tier) (Result, error) {
	return e.Roll(ctx, Request{Expression: expression, Tier: tier})
}

// Roll evaluates req within its tier's time budget.
//
// Errors carry an *errors.Error code whose Kind tells syntax, upsell, hard
// limit, timeout and internal failures apart. If ctx itself is cancelled
// Roll returns ctx.Err() instead.
func (e *Engine) Roll(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	start := time.Now()

	policy, err := e.table.Policy(limits.Tier(strings.ToLower(strings.TrimSpace(string(req.Tier)))))
	if err != nil {
		return Result{}, apperrors.WrapWithMetadata(apperrors.CodeRollUnknownTier, err.Error(), map[string]string{
			"Tier": string(req.Tier),
		}, err)
	}

	expression := strings.TrimSpace(req.Expression)
	if expression == "" {
		expression = e.defaultExpression
	}

	seed, err := e.seed(req)
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.CodeRollInternal, "choose seed", err)
	}

	ctx, span := e.tracer.Start(ctx, "roller.Roll", trace.WithAttributes(
		attribute.String("roll.expression", expression),
		attribute.String("roll.tier", string(policy.Tier)),
		attribute.Int64("roll.seed", seed),
	))
	defer span.End()

	res, err := e.supervise(ctx, expression, policy, seed)
	res.Elapsed = time.Since(start)

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = outcomeOf(err)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, outcome)
		e.logFailure(expression, policy, err)
	} else {
		span.SetAttributes(attribute.Int("roll.draws", res.Draws))
	}
	e.metrics.Record(ctx, metrics.Evaluation{
		Tier:    string(policy.Tier),
		Outcome: outcome,
		Elapsed: res.Elapsed,
		Draws:   res.Draws,
	})
	if err != nil {
		return Result{}, err
	}

	res.Expression = expression
	res.Tier = policy.Tier
	res.Seed = seed
	if req.Difficulty != nil {
		res.Checks = check.Each(res.Outcome.Values(), *req.Difficulty)
	}
	return res, nil
}

func (e *Engine) seed(req Request) (int64, error) {
	if req.Seed != nil {
		return *req.Seed, nil
	}
	return e.newSeed()
}

type evaluation struct {
	outcome arith.Outcome
	draws   int
	err     error
}

// supervise runs the pipeline in its own goroutine and waits for it or the
// tier deadline. The goroutine sees the cancelled context at its next draw.
func (e *Engine) supervise(ctx context.Context, expression string, policy limits.Policy, seed int64) (Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, policy.Timeout)
	defer cancel()

	done := make(chan evaluation, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- evaluation{err: apperrors.New(apperrors.CodeRollInternal, fmt.Sprintf("roll panicked: %v", r))}
			}
		}()
		roller := dice.NewRoller(e.newSource(seed))
		out, err := evaluate(runCtx, expression, policy, roller)
		done <- evaluation{outcome: out, draws: roller.Draws(), err: err}
	}()

	select {
	case ev := <-done:
		if ev.err != nil {
			if apperrors.IsCode(ev.err, apperrors.CodeRollTimeout) {
				return Result{}, timeoutError(ctx, policy)
			}
			return Result{}, ev.err
		}
		return Result{Outcome: ev.outcome, Draws: ev.draws}, nil
	case <-runCtx.Done():
		return Result{}, timeoutError(ctx, policy)
	}
}

// evaluate is the pipeline: parse, build, check, roll and combine.
func evaluate(ctx context.Context, expression string, policy limits.Policy, roller *dice.Roller) (arith.Outcome, error) {
	expr, err := notation.ParseAndBuild(expression)
	if err != nil {
		return arith.Outcome{}, err
	}
	checked, err := limits.Check(expr, policy)
	if err != nil {
		return arith.Outcome{}, err
	}
	return arith.Evaluate(ctx, checked, roller)
}

// timeoutError reports a tier timeout, or the parent's error when the caller
// cancelled.
func timeoutError(parent context.Context, policy limits.Policy) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return parent.Err()
	}
	return apperrors.WrapWithMetadata(apperrors.CodeRollTimeout, "roll exceeded the tier time budget", map[string]string{
		"Timeout": policy.Timeout.String(),
		"Tier":    string(policy.Tier),
	}, context.DeadlineExceeded)
}

func outcomeOf(err error) string {
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return apperrors.KindOf(err).String()
}

// logFailure logs the failures an operator should see. User mistakes and
// limits are not logged.
func (e *Engine) logFailure(expression string, policy limits.Policy, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindTimeout:
		log.Printf("roll timed out after %s (tier %s): %q", policy.Timeout, policy.Tier, expression)
	case apperrors.KindInternal:
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("roll failed (tier %s): %q: %v", policy.Tier, expression, err)
	}
}
