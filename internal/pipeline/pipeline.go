package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Step kinds beyond the built-in transforms.
const (
	// StepCustom marks a caller-registered processor, identified by Name.
	StepCustom = "custom"
)

// Step is one pipeline stage: a built-in transform (Kind + Args) or a
// custom processor (Kind "custom" + Name).
type Step struct {
	Kind string         `json:"type" yaml:"type"`
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty"`
	Name string         `json:"name,omitempty" yaml:"name,omitempty"`
}

// LogEntry records one step's outcome, in execution order.
type LogEntry struct {
	Step    string `json:"step"`
	Outcome string `json:"outcome"`
}

// Options configures a pipeline runner.
type Options struct {
	// Workers bounds concurrent custom-processor executions.
	Workers int
	// Timeout bounds one custom-processor execution.
	Timeout time.Duration
	Logger  *zap.Logger
}

// DefaultOptions returns the standard runner configuration.
func DefaultOptions() Options {
	return Options{
		Workers: 2,
		Timeout: 500 * time.Millisecond,
	}
}

// Runner executes pipelines. Built-in steps run inline on the calling
// goroutine; custom steps are offloaded one at a time to a bounded
// worker pool so a hang can be abandoned after the timeout.
type Runner struct {
	pool    *Pool
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Runner.
func New(opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Runner{
		pool:    NewPool(opts.Workers),
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
}

// Close releases the runner's worker pool.
func (r *Runner) Close() {
	r.pool.Close()
}

// Run applies the steps to value left to right and returns the final
// value plus a per-step outcome log. The pipeline never aborts early:
// a failed step logs its outcome, leaves the value unchanged, and the
// next step still runs. Custom steps execute only in dev mode and only
// when present in the registry.
func (r *Runner) Run(value any, steps []Step, pctx *Context, devMode bool, reg *Registry) (any, []LogEntry) {
	v := value
	log := make([]LogEntry, 0, len(steps))

	for _, step := range steps {
		if step.Kind == StepCustom {
			id := "custom:" + step.Name
			if !devMode {
				log = append(log, LogEntry{Step: id, Outcome: "skipped (dev mode off)"})
				continue
			}
			fn, ok := lookup(reg, step.Name)
			if !ok {
				log = append(log, LogEntry{Step: id, Outcome: "missing"})
				continue
			}
			out, outcome := r.runCustom(fn, v, pctx)
			v = out
			log = append(log, LogEntry{Step: id, Outcome: outcome})
			r.logger.Debug("custom step finished",
				zap.String("step", id), zap.String("outcome", outcome))
			continue
		}

		fn, ok := builtins[step.Kind]
		if !ok {
			id := step.Kind
			if id == "" {
				id = "unknown"
			}
			log = append(log, LogEntry{Step: id, Outcome: "unknown"})
			continue
		}
		out, outcome := runBuiltin(fn, v, pctx, step.Args)
		v = out
		log = append(log, LogEntry{Step: step.Kind, Outcome: outcome})
	}
	return v, log
}

func lookup(reg *Registry, name string) (Func, bool) {
	if reg == nil {
		return nil, false
	}
	return reg.Lookup(name)
}

// runBuiltin applies one built-in transform, converting both errors
// and panics into an outcome string with the value left unchanged.
func runBuiltin(fn builtinFunc, v any, pctx *Context, args map[string]any) (out any, outcome string) {
	defer func() {
		if rec := recover(); rec != nil {
			out, outcome = v, fmt.Sprintf("error: %v", rec)
		}
	}()
	res, err := fn(v, pctx, args)
	if err != nil {
		return v, "error: " + err.Error()
	}
	return res, "ok"
}

type staged struct {
	value any
	err   error
}

// runCustom offloads one custom processor to the worker pool and waits
// up to the configured timeout. A timed-out task is abandoned: its
// staged result is never committed, so a late completion cannot mutate
// pipeline state after the caller has moved on.
func (r *Runner) runCustom(fn Func, value any, pctx *Context) (any, string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	resCh := make(chan staged, 1)
	err := r.pool.Submit(ctx, func() {
		defer func() {
			if rec := recover(); rec != nil {
				resCh <- staged{err: fmt.Errorf("panic: %v", rec)}
			}
		}()
		out, err := fn(ctx, value, pctx)
		resCh <- staged{value: out, err: err}
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return value, "timeout"
		}
		return value, "error: " + err.Error()
	}

	select {
	case res := <-resCh:
		if res.err != nil {
			return value, "error: " + res.err.Error()
		}
		return res.value, "ok"
	case <-ctx.Done():
		return value, "timeout"
	}
}
