package report

import (
	"encoding/json"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// Summary aggregates one pass. Response time figures cover successful probes only.
type Summary struct {
	Total       int
	Succeeded   int
	HTTPErrors  int
	OtherErrors int

	MinResponseTime time.Duration
	AvgResponseTime time.Duration
	MaxResponseTime time.Duration

	// Results in the order they arrived.
	Results []domain.ProbeResult
}

// Summarize computes the aggregate for results.
func Summarize(results []domain.ProbeResult) Summary {
	s := Summary{Total: len(results), Results: results}

	var total time.Duration
	for _, r := range results {
		switch r.Outcome.Kind {
		case domain.Success:
			if s.Succeeded == 0 || r.ResponseTime < s.MinResponseTime {
				s.MinResponseTime = r.ResponseTime
			}
			if r.ResponseTime > s.MaxResponseTime {
				s.MaxResponseTime = r.ResponseTime
			}
			total += r.ResponseTime
			s.Succeeded++
		case domain.HTTPError:
			s.HTTPErrors++
		default:
			s.OtherErrors++
		}
	}
	if s.Succeeded > 0 {
		s.AvgResponseTime = total / time.Duration(s.Succeeded)
	}
	return s
}

func (s Summary) FailedCount() int { return s.HTTPErrors + s.OtherErrors }

// Failures returns the failed results in arrival order.
func (s Summary) Failures() []domain.ProbeResult {
	out := make([]domain.ProbeResult, 0, s.FailedCount())
	for _, r := range s.Results {
		if r.Failed() {
			out = append(out, r)
		}
	}
	return out
}

type summaryJSON struct {
	Total             int   `json:"total"`
	Succeeded         int   `json:"succeeded"`
	HTTPErrors        int   `json:"http_errors"`
	OtherErrors       int   `json:"other_errors"`
	MinResponseTimeMS int64 `json:"min_response_time_ms"`
	AvgResponseTimeMS int64 `json:"avg_response_time_ms"`
	MaxResponseTimeMS int64 `json:"max_response_time_ms"`
}

// MarshalJSON leaves the per-result list out; callers that need it encode Results on their own.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(summaryJSON{
		Total:             s.Total,
		Succeeded:         s.Succeeded,
		HTTPErrors:        s.HTTPErrors,
		OtherErrors:       s.OtherErrors,
		MinResponseTimeMS: s.MinResponseTime.Milliseconds(),
		AvgResponseTimeMS: s.AvgResponseTime.Milliseconds(),
		MaxResponseTimeMS: s.MaxResponseTime.Milliseconds(),
	})
}
