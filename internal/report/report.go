// Package report renders probe results as they arrive and prints the
// aggregate once the completion channel is drained.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// Mode selects what the aggregate listing contains.
type Mode string

const (
	// ModeErrors lists failed probes only.
	ModeErrors Mode = "errors"
	// ModeAudit lists every entry that passed through the completion channel,
	// including the empty marker of successful probes.
	ModeAudit Mode = "audit"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeErrors:
		return ModeErrors, nil
	case ModeAudit:
		return ModeAudit, nil
	}
	return "", fmt.Errorf("unknown report mode %q (want errors or audit)", s)
}

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Reporter struct {
	w    io.Writer
	mode Mode

	ok   *color.Color
	bad  *color.Color
	warn *color.Color
	bold *color.Color
}

func New(w io.Writer, mode Mode, noColor bool) *Reporter {
	if mode == "" {
		mode = ModeErrors
	}
	r := &Reporter{
		w:    w,
		mode: mode,
		ok:   color.New(color.FgGreen),
		bad:  color.New(color.FgRed),
		warn: color.New(color.FgYellow),
		bold: color.New(color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{r.ok, r.bad, r.warn, r.bold} {
			c.DisableColor()
		}
	}
	return r
}

// Line renders the per-site line for res.
func (r *Reporter) Line(res domain.ProbeResult) string {
	var status string
	switch res.Outcome.Kind {
	case domain.Success:
		status = r.ok.Sprintf("status: %d", res.Outcome.StatusCode)
	case domain.HTTPError:
		status = r.warn.Sprintf("status: %d, error: %s", res.Outcome.StatusCode, res.Outcome.Message)
	default:
		status = r.bad.Sprintf("status: %d, error: %s", res.Outcome.StatusCode, res.Outcome.Message)
	}
	return fmt.Sprintf("For %s = %s, response time: %d ms, timestamp: %s",
		res.URL, status, res.ResponseTimeMS(), res.Timestamp.Format(timestampLayout))
}

// Collect prints one line per result as it arrives and returns the aggregate
// once results is closed.
func (r *Reporter) Collect(results <-chan domain.ProbeResult) Summary {
	var got []domain.ProbeResult
	for res := range results {
		fmt.Fprintln(r.w, r.Line(res))
		got = append(got, res)
	}
	return Summarize(got)
}

// PrintSummary writes the aggregate listing followed by the totals.
func (r *Reporter) PrintSummary(s Summary) {
	fmt.Fprintln(r.w)
	switch r.mode {
	case ModeAudit:
		r.bold.Fprintln(r.w, "Errors (all entries):")
		for _, res := range s.Results {
			msg := res.ErrorMessage()
			if msg == "" {
				fmt.Fprintf(r.w, "  %s: none\n", res.URL)
				continue
			}
			fmt.Fprintf(r.w, "  %s: %s\n", res.URL, r.bad.Sprint(msg))
		}
	default:
		failures := s.Failures()
		if len(failures) == 0 {
			r.bold.Fprint(r.w, "Errors: ")
			fmt.Fprintln(r.w, r.ok.Sprint("none"))
			break
		}
		r.bold.Fprintln(r.w, "Errors:")
		for _, res := range failures {
			fmt.Fprintf(r.w, "  %s: %s\n", res.URL, r.bad.Sprint(res.Outcome.Message))
		}
	}

	fmt.Fprintf(r.w, "Checked %d sites: %s, %s, %s\n",
		s.Total,
		r.ok.Sprintf("%d ok", s.Succeeded),
		r.warn.Sprintf("%d http errors", s.HTTPErrors),
		r.bad.Sprintf("%d other errors", s.OtherErrors),
	)
	if s.Succeeded > 0 {
		fmt.Fprintf(r.w, "Response time (ok only): min %d ms, avg %d ms, max %d ms\n",
			ms(s.MinResponseTime), ms(s.AvgResponseTime), ms(s.MaxResponseTime))
	}
}

func ms(d time.Duration) int64 { return d.Milliseconds() }
