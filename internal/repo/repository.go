package repo

import (
	"context"
	"errors"

	"github.com/hamed0406/sitecheck/internal/domain"
)

var ErrNotFound = errors.New("repo: run not found")

// RunStore keeps recent runs for the API. Nothing here outlives the process.
type RunStore interface {
	Save(ctx context.Context, r *domain.Run) error
	Get(ctx context.Context, id domain.RunID) (*domain.Run, error)
	// Latest returns ErrNotFound before the first run.
	Latest(ctx context.Context) (*domain.Run, error)
}
