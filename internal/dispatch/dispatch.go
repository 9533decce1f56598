// Package dispatch fans a list of URLs out to concurrent probes and fans the
// results back in over a single completion channel.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/probe"
)

type Dispatcher struct {
	Logger      *zap.Logger
	Prober      probe.Prober
	Concurrency int // <= 0 means one running probe per URL
}

func New(logger *zap.Logger, p probe.Prober, concurrency int) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency < 0 {
		concurrency = 0
	}
	return &Dispatcher{
		Logger:      logger,
		Prober:      p,
		Concurrency: concurrency,
	}
}

// Run is a single in-flight pass over a URL list.
type Run struct {
	results chan domain.ProbeResult
	done    chan struct{}
	n       int
}

// Results is closed once every probe of the run has posted its result.
func (r *Run) Results() <-chan domain.ProbeResult { return r.results }

// Wait blocks until every probe task of the run has returned.
func (r *Run) Wait() { <-r.done }

// Len is the number of probes the run was started with.
func (r *Run) Len() int { return r.n }

// Dispatch starts one probe per entry of urls and returns immediately.
// Entries are passed through untouched, duplicates and empty strings included.
//
// The completion channel holds one slot per URL, so a probe never blocks on
// send and the channel is closed only after the last probe returned.
func (d *Dispatcher) Dispatch(ctx context.Context, urls []string) *Run {
	run := &Run{
		results: make(chan domain.ProbeResult, len(urls)),
		done:    make(chan struct{}),
		n:       len(urls),
	}

	limit := d.Concurrency
	if limit <= 0 {
		limit = -1
	}
	g := new(errgroup.Group)
	g.SetLimit(limit)

	d.Logger.Info("dispatch_start",
		zap.Int("urls", len(urls)),
		zap.Int("concurrency", d.Concurrency),
	)
	start := time.Now()

	// g.Go blocks once the limit is reached, so spawning runs off the caller's goroutine.
	go func() {
		for _, u := range urls {
			target := u
			g.Go(func() error {
				res := d.probeOne(ctx, target)
				run.results <- res
				d.Logger.Debug("probe_done",
					zap.String("url", res.URL),
					zap.Stringer("kind", res.Outcome.Kind),
					zap.Int("status", res.Outcome.StatusCode),
					zap.Int64("response_time_ms", res.ResponseTimeMS()),
					zap.String("cause", string(res.Outcome.Cause)),
				)
				return nil
			})
		}
		_ = g.Wait()
		close(run.results)
		d.Logger.Info("dispatch_done",
			zap.Int("urls", len(urls)),
			zap.Duration("elapsed", time.Since(start)),
		)
		close(run.done)
	}()

	return run
}

// probeOne turns a panicking prober, or one that returns no usable outcome,
// into a failed result so every URL still yields exactly one result.
func (d *Dispatcher) probeOne(ctx context.Context, target string) (res domain.ProbeResult) {
	defer func() {
		if rec := recover(); rec != nil {
			d.Logger.Error("probe_panic", zap.String("url", target), zap.Any("panic", rec))
			res = domain.NewProbeResult(target, domain.Failed(domain.CauseOther, fmt.Errorf("probe panic: %v", rec)), 0)
		}
	}()
	res = d.Prober.Probe(ctx, target)
	if !res.Outcome.Valid() {
		d.Logger.Warn("invalid_outcome", zap.String("url", target), zap.Stringer("kind", res.Outcome.Kind))
		res = domain.NewProbeResult(target, domain.Failed(domain.CauseOther, errors.New("no outcome reported")), res.ResponseTime)
	}
	if res.URL != target {
		res.URL = target
	}
	return res
}

// Collect runs a pass and gathers its results in completion order.
func (d *Dispatcher) Collect(ctx context.Context, urls []string) []domain.ProbeResult {
	run := d.Dispatch(ctx, urls)
	out := make([]domain.ProbeResult, 0, run.Len())
	for r := range run.Results() {
		out = append(out, r)
	}
	run.Wait()
	return out
}
