package probe

import (
	"context"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// Prober performs exactly one check against target and always returns a result.
type Prober interface {
	Probe(ctx context.Context, target string) domain.ProbeResult
}

// Func adapts a plain function to Prober.
type Func func(ctx context.Context, target string) domain.ProbeResult

func (f Func) Probe(ctx context.Context, target string) domain.ProbeResult {
	return f(ctx, target)
}
