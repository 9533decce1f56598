package domain

import (
	"time"

	"github.com/google/uuid"
)

type RunID = uuid.UUID

// Run is one pass over a URL list.
type Run struct {
	ID         RunID         `json:"id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	URLs       int           `json:"urls"`
	Results    []ProbeResult `json:"results"`
}

func NewRun(urls int) *Run {
	return &Run{
		ID:        uuid.New(),
		StartedAt: time.Now().UTC(),
		URLs:      urls,
	}
}

// Finish records results in completion order and stamps the end time.
func (r *Run) Finish(results []ProbeResult) {
	r.Results = results
	r.FinishedAt = time.Now().UTC()
}
