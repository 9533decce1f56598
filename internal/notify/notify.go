package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/hamed0406/sitecheck/internal/report"
)

type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Multi delivers to every notifier and returns all delivery errors combined.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Send(ctx, title, text))
	}
	return err
}

// maxDigestLines caps how many failed URLs a single message lists.
const maxDigestLines = 25

// Digest formats the failures of a pass. ok is false when nothing failed.
func Digest(s report.Summary) (title, text string, ok bool) {
	failures := s.Failures()
	if len(failures) == 0 {
		return "", "", false
	}
	title = fmt.Sprintf("🔴 %d of %d sites failed", len(failures), s.Total)

	var b strings.Builder
	for i, r := range failures {
		if i == maxDigestLines {
			fmt.Fprintf(&b, "…and %d more\n", len(failures)-maxDigestLines)
			break
		}
		if r.Outcome.StatusCode != 0 {
			fmt.Fprintf(&b, "• %s: %s (HTTP %d, %d ms)\n", r.URL, r.Outcome.Message, r.Outcome.StatusCode, r.ResponseTimeMS())
		} else {
			fmt.Fprintf(&b, "• %s: %s (%d ms)\n", r.URL, r.Outcome.Message, r.ResponseTimeMS())
		}
	}
	return title, strings.TrimRight(b.String(), "\n"), true
}

// Failures sends the digest of s through n. Nothing is sent when every probe succeeded.
func Failures(ctx context.Context, n Notifier, s report.Summary) error {
	title, text, ok := Digest(s)
	if !ok || n == nil {
		return nil
	}
	return n.Send(ctx, title, text)
}
