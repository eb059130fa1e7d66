package roller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/louisbranch/rollplayer/internal/core/dice"
	"github.com/louisbranch/rollplayer/internal/core/limits"
	apperrors "github.com/louisbranch/rollplayer/internal/errors"
	"github.com/louisbranch/rollplayer/internal/platform/telemetry/metrics"
	"github.com/louisbranch/rollplayer/internal/random"
)

// fixed always draws the same face of a range starting at 1.
type fixed int

func (f fixed) Int63n(int64) int64 { return int64(f) - 1 }

// blocking blocks every draw until released.
type blocking struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlocking() *blocking {
	return &blocking{started: make(chan struct{}), release: make(chan struct{})}
}

func (b *blocking) Int63n(int64) int64 {
	b.calls.Add(1)
	b.once.Do(func() { close(b.started) })
	<-b.release
	return 0
}

type panicking struct{}

func (panicking) Int63n(int64) int64 { panic("source broke") }

func tableWithTimeout(t *testing.T, timeout time.Duration) *limits.Table {
	t.Helper()
	policies := limits.DefaultPolicies()
	for tier, p := range policies {
		p.Timeout = timeout
		policies[tier] = p
	}
	table, err := limits.NewTable(limits.Restricted, policies)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table
}

func seed(v int64) *int64 { return &v }

func TestEvaluateBareDice(t *testing.T) {
	engine := New()
	res, err := engine.Evaluate(context.Background(), "3d6", "")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Tier != limits.Stopgap {
		t.Fatalf("tier = %s, want default %s", res.Tier, limits.Stopgap)
	}
	if len(res.Outcome.Groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(res.Outcome.Groups))
	}
	roll := res.Outcome.Groups[0].Roll
	if roll == nil || len(roll.Results) != 3 {
		t.Fatalf("roll = %+v, want 3 results", roll)
	}
	for _, v := range roll.Results {
		if v < 1 || v > 6 {
			t.Fatalf("result %v outside 1..6", v)
		}
	}
	if res.Draws != 3 {
		t.Fatalf("draws = %d, want 3", res.Draws)
	}
}

func TestSeedReplaysRoll(t *testing.T) {
	engine := New()
	req := Request{Expression: "10d100!rr{<5} 4d6kh3+2", Tier: limits.Elevated, Seed: seed(1234)}

	first, err := engine.Roll(context.Background(), req)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	second, err := engine.Roll(context.Background(), req)
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	if first.Seed != 1234 || second.Seed != 1234 {
		t.Fatalf("seeds = %d, %d, want 1234", first.Seed, second.Seed)
	}
	a, b := first.Outcome.Values(), second.Outcome.Values()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("replayed values differ: %v vs %v", a, b)
		}
	}
}

func TestGeneratedSeedIsReported(t *testing.T) {
	engine := New(WithSeedFunc(func() (int64, error) { return 77, nil }))
	res, err := engine.Evaluate(context.Background(), "1d20", limits.Restricted)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Seed != 77 {
		t.Fatalf("seed = %d, want 77", res.Seed)
	}
	replay := random.NewSource(77)
	want := float64(1 + replay.Int63n(20))
	if got := res.Outcome.Groups[0].Value; got != want {
		t.Fatalf("value = %v, want %v from seed 77", got, want)
	}
}

func TestSeedFuncError(t *testing.T) {
	engine := New(WithSeedFunc(func() (int64, error) { return 0, errors.New("no entropy") }))
	_, err := engine.Evaluate(context.Background(), "1d20", "")
	if !apperrors.IsCode(err, apperrors.CodeRollInternal) {
		t.Fatalf("err = %v, want internal", err)
	}
}

func TestDefaultExpression(t *testing.T) {
	engine := New(WithDefaultExpression("2d4"), WithSourceFactory(func(int64) dice.Source { return fixed(3) }))
	res, err := engine.Evaluate(context.Background(), "   ", "")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Expression != "2d4" || res.Outcome.Groups[0].Value != 6 {
		t.Fatalf("result = %+v, want 2d4 = 6", res)
	}
}

func TestTierErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		tier limits.Tier
		code apperrors.Code
		kind apperrors.Kind
	}{
		{name: "syntax", text: "1d20x", tier: limits.Elevated, code: apperrors.CodeRollSyntax, kind: apperrors.KindSyntax},
		{name: "upsell", text: "2000d20", tier: limits.Restricted, code: apperrors.CodeRollDiceUpsell, kind: apperrors.KindUpsell},
		{name: "hard limit", text: "20000d20", tier: limits.Elevated, code: apperrors.CodeRollDiceLimit, kind: apperrors.KindHardLimit},
		{name: "stopgap dice upsell", text: "2000d6", tier: limits.Stopgap, code: apperrors.CodeRollDiceUpsell, kind: apperrors.KindUpsell},
		{name: "stopgap explosion upsell", text: "1d6!:30", tier: limits.Stopgap, code: apperrors.CodeRollExplosionUpsell, kind: apperrors.KindUpsell},
		{name: "stopgap reroll upsell", text: "1d6rr{1}:10", tier: limits.Stopgap, code: apperrors.CodeRollRerollUpsell, kind: apperrors.KindUpsell},
		{name: "stopgap hard limit", text: "20000d6", tier: limits.Stopgap, code: apperrors.CodeRollDiceLimit, kind: apperrors.KindHardLimit},
		{name: "non-finite value", text: strings.Repeat("9", 308) + "*10", tier: limits.Restricted, code: apperrors.CodeRollNumberOutOfRange, kind: apperrors.KindHardLimit},
		{name: "zero dice", text: "0d20", tier: limits.Elevated, code: apperrors.CodeRollZeroDice, kind: apperrors.KindHardLimit},
		{name: "target zero", text: "1d20i0:+5", tier: limits.Restricted, code: apperrors.CodeRollTargetZero, kind: apperrors.KindHardLimit},
		{name: "keep nothing", text: "4d6kh0", tier: limits.Restricted, code: apperrors.CodeRollKeepNothing, kind: apperrors.KindHardLimit},
		{name: "too many groups", text: "d4 d4 d4 d4 d4 d4", tier: limits.Restricted, code: apperrors.CodeRollTooManyGroups, kind: apperrors.KindHardLimit},
		{name: "unknown tier", text: "1d20", tier: "gold", code: apperrors.CodeRollUnknownTier, kind: apperrors.KindArgument},
	}
	engine := New(WithSourceFactory(func(int64) dice.Source { return fixed(1) }))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.Evaluate(context.Background(), tt.text, tt.tier)
			if got := apperrors.GetCode(err); got != tt.code {
				t.Fatalf("code = %s, want %s (%v)", got, tt.code, err)
			}
			if got := apperrors.KindOf(err); got != tt.kind {
				t.Fatalf("kind = %s, want %s", got, tt.kind)
			}
			if len(res.Outcome.Groups) != 0 {
				t.Fatalf("failed roll returned groups: %+v", res.Outcome.Groups)
			}
		})
	}
}

func TestTimeoutDiscardsPartialResult(t *testing.T) {
	src := newBlocking()
	engine := New(
		WithTable(tableWithTimeout(t, 20*time.Millisecond)),
		WithSourceFactory(func(int64) dice.Source { return src }),
	)

	start := time.Now()
	res, err := engine.Evaluate(context.Background(), "3d6", limits.Restricted)
	elapsed := time.Since(start)

	if !apperrors.IsCode(err, apperrors.CodeRollTimeout) {
		t.Fatalf("err = %v, want timeout", err)
	}
	if apperrors.KindOf(err) != apperrors.KindTimeout {
		t.Fatalf("kind = %s, want timeout", apperrors.KindOf(err))
	}
	if got := apperrors.GetMetadata(err)["Timeout"]; got != "20ms" {
		t.Fatalf("timeout metadata = %q, want 20ms", got)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want to wrap context.DeadlineExceeded", err)
	}
	if len(res.Outcome.Groups) != 0 || res.Draws != 0 {
		t.Fatalf("timeout returned a partial result: %+v", res)
	}
	if elapsed > time.Second {
		t.Fatalf("timeout took %v", elapsed)
	}

	<-src.started
	close(src.release)
	time.Sleep(20 * time.Millisecond)
	if calls := src.calls.Load(); calls != 1 {
		t.Fatalf("draws after cancellation: %d calls, want 1", calls)
	}
}

func TestEngineRecoversAfterTimeout(t *testing.T) {
	src := newBlocking()
	t.Cleanup(func() { close(src.release) })
	engine := New(
		WithTable(tableWithTimeout(t, 20*time.Millisecond)),
		WithSourceFactory(func(seed int64) dice.Source {
			if seed == 1 {
				return src
			}
			return fixed(4)
		}),
	)

	_, err := engine.Roll(context.Background(), Request{Expression: "1d6", Seed: seed(1)})
	if !apperrors.IsCode(err, apperrors.CodeRollTimeout) {
		t.Fatalf("err = %v, want timeout", err)
	}
	res, err := engine.Roll(context.Background(), Request{Expression: "1d6", Seed: seed(2)})
	if err != nil {
		t.Fatalf("Roll after timeout: %v", err)
	}
	if res.Outcome.Groups[0].Value != 4 {
		t.Fatalf("value = %v, want 4", res.Outcome.Groups[0].Value)
	}
}

func TestCallerCancellation(t *testing.T) {
	engine := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := engine.Evaluate(ctx, "1d20", "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	src := newBlocking()
	t.Cleanup(func() { close(src.release) })
	engine = New(WithSourceFactory(func(int64) dice.Source { return src }))
	ctx, cancel = context.WithCancel(context.Background())
	go func() {
		<-src.started
		cancel()
	}()
	_, err = engine.Evaluate(ctx, "1d20", "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if apperrors.IsCode(err, apperrors.CodeRollTimeout) {
		t.Fatal("caller cancellation reported as a tier timeout")
	}
}

func TestDifficultyChecks(t *testing.T) {
	engine := New(WithSourceFactory(func(int64) dice.Source { return fixed(12) }))
	difficulty := 15.0
	res, err := engine.Roll(context.Background(), Request{
		Expression: "1d20 1d20+5",
		Difficulty: &difficulty,
	})
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	if len(res.Checks) != 2 {
		t.Fatalf("checks = %d, want 2", len(res.Checks))
	}
	if res.Checks[0].Success || res.Checks[0].Margin != -3 {
		t.Fatalf("first check = %+v", res.Checks[0])
	}
	if !res.Checks[1].Success || res.Checks[1].Margin != 2 {
		t.Fatalf("second check = %+v", res.Checks[1])
	}

	res, err = engine.Evaluate(context.Background(), "1d20", "")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Checks != nil {
		t.Fatalf("checks without difficulty: %+v", res.Checks)
	}
}

func TestPanicBecomesInternalError(t *testing.T) {
	engine := New(WithSourceFactory(func(int64) dice.Source { return panicking{} }))
	_, err := engine.Evaluate(context.Background(), "1d20", "")
	if !apperrors.IsCode(err, apperrors.CodeRollInternal) {
		t.Fatalf("err = %v, want internal", err)
	}
}

func TestMetricsRecorderWired(t *testing.T) {
	rec, err := metrics.NewRecorder(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	engine := New(WithMetrics(rec))
	if _, err := engine.Evaluate(context.Background(), "2d6", ""); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if _, err := engine.Evaluate(context.Background(), "2d", ""); err == nil {
		t.Fatal("expected syntax error")
	}
}

func TestConcurrentRequestsAreIndependent(t *testing.T) {
	engine := New()
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := engine.Roll(context.Background(), Request{Expression: "5d6kh3", Seed: seed(int64(i))})
			if err != nil {
				errs <- err
				return
			}
			if n := len(res.Outcome.Groups[0].Roll.Results); n != 3 {
				errs <- errors.New("keep produced the wrong count")
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestTierNamesAreCaseInsensitive(t *testing.T) {
	engine := New(WithSourceFactory(func(int64) dice.Source { return fixed(3) }))
	res, err := engine.Evaluate(context.Background(), "2000d20", " Elevated ")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Tier != limits.Elevated {
		t.Fatalf("tier = %s, want %s", res.Tier, limits.Elevated)
	}
}
