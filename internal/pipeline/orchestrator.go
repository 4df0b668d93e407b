package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/raveheart1/pagecraft/internal/record"
)

// Status is the orchestrator's lifecycle state for one run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Documents holds the three output documents of a completed run.
type Documents struct {
	FAQ         *record.FAQPage
	ProductPage *record.ProductPage
	Comparison  *record.ComparisonPage
}

// Result reports the outcome of one run: terminal status, the failing stage
// and reason when failed, attempts consumed per stage, and the documents on
// completion. Transitions records the lifecycle for observability.
type Result struct {
	RunID       string
	Status      Status
	FailedStage StageName
	Reason      error
	Attempts    map[StageName]int
	Documents   *Documents
	Transitions []string
	Duration    time.Duration
}

// Observer receives stage lifecycle events. Implementations must be safe for
// concurrent calls when tiers run in parallel.
type Observer interface {
	StageStarted(index, total int, name StageName)
	StageRetrying(name StageName, attempt int, reason error)
	StageCompleted(index, total int, name StageName)
}

type nopObserver struct{}

func (nopObserver) StageStarted(int, int, StageName)    {}
func (nopObserver) StageRetrying(StageName, int, error) {}
func (nopObserver) StageCompleted(int, int, StageName)  {}

// Options configures an Orchestrator.
type Options struct {
	// MaxRetries is the number of extra attempts granted to a stage whose
	// failure is retryable. Zero means a single attempt.
	MaxRetries int
	// Timeout bounds the whole run. Zero means no limit.
	Timeout time.Duration
	// Sequential disables tier scheduling and runs stages strictly in
	// declared order. A stage whose requirements are not met by the stages
	// declared before it fails the run with MissingDependency.
	Sequential bool
	// Observer receives stage lifecycle events (nil for none).
	Observer Observer
}

// Orchestrator owns the ordered stage sequence, the shared run state, and the
// retry/failure policy for one pipeline execution. It contains coordination
// logic only; stage semantics live in the injected stages.
type Orchestrator struct {
	stages     []Stage
	maxRetries int
	timeout    time.Duration
	sequential bool
	observer   Observer

	mu sync.Mutex // guards result bookkeeping during parallel tiers
}

// New creates an orchestrator over an ordered stage sequence.
func New(stages []Stage, opts Options) (*Orchestrator, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("orchestrator requires at least one stage")
	}
	seen := make(map[StageName]bool, len(stages))
	for _, st := range stages {
		if seen[st.Name()] {
			return nil, fmt.Errorf("duplicate stage %s", st.Name())
		}
		seen[st.Name()] = true
	}
	obs := opts.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	if opts.MaxRetries < 0 {
		return nil, fmt.Errorf("max retries must be >= 0, got %d", opts.MaxRetries)
	}
	return &Orchestrator{
		stages:     stages,
		maxRetries: opts.MaxRetries,
		timeout:    opts.Timeout,
		sequential: opts.Sequential,
		observer:   obs,
	}, nil
}

// Run drives the pipeline to completion or the first stage failure. Stages
// execute in dependency tiers: every stage whose required fields are present
// is runnable, and runnable stages run concurrently. With Sequential set the
// tiers are skipped and stages run one at a time in declared order. The
// returned Result always reports which stage failed and why; the error is
// non-nil exactly when the run failed.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{
		RunID:       "run-" + uuid.NewString()[:8],
		Status:      StatusPending,
		Attempts:    make(map[StageName]int),
		Transitions: []string{string(StatusPending)},
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	state := NewRunState()
	res.Status = StatusRunning

	if o.sequential {
		// Declared order, no tier promotion. runStage surfaces an unmet
		// requirement as MissingDependency before invoking the stage.
		for idx := range o.stages {
			if err := o.runStage(ctx, idx, state, res); err != nil {
				return o.fail(res, o.stages[idx].Name(), err, start)
			}
		}
		return o.complete(res, state, start), nil
	}

	remaining := make([]int, len(o.stages))
	for i := range o.stages {
		remaining[i] = i
	}

	for len(remaining) > 0 {
		tier, rest := o.nextTier(state, remaining)
		if len(tier) == 0 {
			// No runnable stage left: the first blocked stage names the
			// missing field in its failure.
			st := o.stages[remaining[0]]
			err := o.missingDependency(st, state)
			return o.fail(res, st.Name(), err, start)
		}
		remaining = rest

		if len(tier) == 1 {
			for _, idx := range tier {
				if err := o.runStage(ctx, idx, state, res); err != nil {
					return o.fail(res, o.stages[idx].Name(), err, start)
				}
			}
			continue
		}

		g, gctx := errgroup.WithContext(ctx)
		var (
			failMu    sync.Mutex
			failStage StageName
			failErr   error
		)
		for _, idx := range tier {
			g.Go(func() error {
				if err := o.runStage(gctx, idx, state, res); err != nil {
					failMu.Lock()
					if failErr == nil {
						failStage = o.stages[idx].Name()
						failErr = err
					}
					failMu.Unlock()
					return err
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return o.fail(res, failStage, failErr, start)
		}
	}

	return o.complete(res, state, start), nil
}

func (o *Orchestrator) complete(res *Result, state *RunState, start time.Time) *Result {
	res.Status = StatusCompleted
	res.Transitions = append(res.Transitions, string(StatusCompleted))
	res.Documents = &Documents{
		FAQ:         state.FAQ(),
		ProductPage: state.ProductPage(),
		Comparison:  state.Comparison(),
	}
	res.Duration = time.Since(start)
	return res
}

// nextTier partitions remaining stage indices into the runnable tier and the
// rest, preserving declared order.
func (o *Orchestrator) nextTier(state *RunState, remaining []int) (tier, rest []int) {
	for _, idx := range remaining {
		if o.satisfied(o.stages[idx], state) {
			tier = append(tier, idx)
		} else {
			rest = append(rest, idx)
		}
	}
	return tier, rest
}

func (o *Orchestrator) satisfied(st Stage, state *RunState) bool {
	for _, f := range st.Requires() {
		if !state.Has(f) {
			return false
		}
	}
	return true
}

func (o *Orchestrator) missingDependency(st Stage, state *RunState) error {
	for _, f := range st.Requires() {
		if !state.Has(f) {
			return &MissingDependencyError{Stage: st.Name(), Field: f}
		}
	}
	return &MissingDependencyError{Stage: st.Name()}
}

// runStage executes one stage with the retry policy: retryable failures get
// up to MaxRetries extra attempts with the failure reason fed back into the
// next prompt; anything else fails the stage on the spot.
func (o *Orchestrator) runStage(ctx context.Context, idx int, state *RunState, res *Result) error {
	st := o.stages[idx]

	// Requires is re-checked per stage so a mis-declared Produces surfaces
	// as MissingDependency rather than a crash inside the stage.
	if err := o.checkRequires(st, state); err != nil {
		return err
	}

	o.transition(res, fmt.Sprintf("%s(%d)", StatusRunning, idx))
	o.observer.StageStarted(idx, len(o.stages), st.Name())

	var fb Feedback
	maxAttempts := o.maxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		o.countAttempt(res, st.Name())

		delta, err := st.Run(ctx, state, fb)
		if err == nil {
			if merr := state.Merge(st.Name(), st.Produces(), delta); merr != nil {
				return merr
			}
			o.observer.StageCompleted(idx, len(o.stages), st.Name())
			return nil
		}

		lastErr = err
		// The run deadline expiring mid-stage leaves no budget for another
		// attempt regardless of the error's own classification.
		if !Retryable(err) || ctx.Err() != nil || attempt == maxAttempts {
			break
		}
		o.observer.StageRetrying(st.Name(), attempt, err)
		fb = Feedback{Attempt: attempt, Reason: err.Error()}
	}

	return lastErr
}

func (o *Orchestrator) checkRequires(st Stage, state *RunState) error {
	for _, f := range st.Requires() {
		if !state.Has(f) {
			return &MissingDependencyError{Stage: st.Name(), Field: f}
		}
	}
	return nil
}

func (o *Orchestrator) fail(res *Result, stage StageName, err error, start time.Time) (*Result, error) {
	res.Status = StatusFailed
	res.FailedStage = stage
	res.Reason = err
	res.Duration = time.Since(start)
	o.transition(res, fmt.Sprintf("%s(%s, %s)", StatusFailed, stage, ReasonName(err)))
	attempts := res.Attempts[stage]
	return res, fmt.Errorf("stage %s failed after %d attempt(s): %w", stage, attempts, err)
}

func (o *Orchestrator) transition(res *Result, entry string) {
	o.mu.Lock()
	res.Transitions = append(res.Transitions, entry)
	o.mu.Unlock()
}

func (o *Orchestrator) countAttempt(res *Result, name StageName) {
	o.mu.Lock()
	res.Attempts[name]++
	o.mu.Unlock()
}
