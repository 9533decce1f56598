package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

var ts = time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)

func result(url string, out domain.Outcome, rt time.Duration) domain.ProbeResult {
	return domain.ProbeResult{URL: url, Outcome: out, ResponseTime: rt, Timestamp: ts}
}

func feed(rs ...domain.ProbeResult) <-chan domain.ProbeResult {
	ch := make(chan domain.ProbeResult, len(rs))
	for _, r := range rs {
		ch <- r
	}
	close(ch)
	return ch
}

func TestLine(t *testing.T) {
	r := New(&bytes.Buffer{}, ModeErrors, true)

	ok := r.Line(result("https://example.com", domain.Succeeded(200), 12*time.Millisecond))
	want := "For https://example.com = status: 200, response time: 12 ms, timestamp: 2025-08-18T12:00:00.000Z"
	if ok != want {
		t.Fatalf("success line:\nwant %q\ngot  %q", want, ok)
	}

	he := r.Line(result("https://example.com/not-found", domain.HTTPFailed(404), 3*time.Millisecond))
	if !strings.Contains(he, "status: 404, error: HTTP error") {
		t.Fatalf("http error line missing status/error: %q", he)
	}

	oe := r.Line(result("http://localhost:1", domain.Failed(domain.CauseRefused, errors.New("connection refused")), 0))
	if !strings.Contains(oe, "status: 0, error: Other error: connection refused") {
		t.Fatalf("other error line missing status/error: %q", oe)
	}
	if !strings.Contains(oe, "response time: 0 ms") {
		t.Fatalf("other error line should still carry response time: %q", oe)
	}
}

func TestCollect_OneLinePerResult(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, ModeErrors, true)

	s := r.Collect(feed(
		result("https://a.example", domain.Succeeded(200), 10*time.Millisecond),
		result("https://b.example", domain.HTTPFailed(500), 20*time.Millisecond),
		result("https://c.example", domain.Succeeded(204), 30*time.Millisecond),
	))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "For https://b.example") {
		t.Fatalf("lines should follow arrival order, got %q", lines[1])
	}
	if s.Total != 3 || s.Succeeded != 2 || s.HTTPErrors != 1 || s.OtherErrors != 0 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestCollect_EmptyPrintsNothing(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, ModeErrors, true).Collect(feed())
	if buf.Len() != 0 {
		t.Fatalf("want no output, got %q", buf.String())
	}
	if s.Total != 0 || s.FailedCount() != 0 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestPrintSummary_ErrorsMode(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, ModeErrors, true)
	r.PrintSummary(Summarize([]domain.ProbeResult{
		result("https://a.example", domain.Succeeded(200), 10*time.Millisecond),
		result("https://b.example", domain.HTTPFailed(404), 5*time.Millisecond),
		result("http://localhost:1", domain.Failed(domain.CauseRefused, errors.New("refused")), time.Millisecond),
	}))

	out := buf.String()
	if strings.Contains(out, "https://a.example") {
		t.Fatalf("errors mode should not list successes:\n%s", out)
	}
	for _, want := range []string{
		"https://b.example: HTTP error",
		"http://localhost:1: Other error: refused",
		"Checked 3 sites: 1 ok, 1 http errors, 1 other errors",
		"min 10 ms, avg 10 ms, max 10 ms",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPrintSummary_ErrorsModeNoFailures(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, ModeErrors, true).PrintSummary(Summarize(nil))
	if !strings.Contains(buf.String(), "Errors: none") {
		t.Fatalf("want Errors: none, got:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "Response time") {
		t.Fatalf("no response time line expected without successes:\n%s", buf.String())
	}
}

func TestPrintSummary_AuditModeListsEveryEntry(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, ModeAudit, true).PrintSummary(Summarize([]domain.ProbeResult{
		result("https://a.example", domain.Succeeded(200), time.Millisecond),
		result("https://b.example", domain.HTTPFailed(503), time.Millisecond),
	}))
	out := buf.String()
	if !strings.Contains(out, "https://a.example: none") {
		t.Fatalf("audit mode should list success marker:\n%s", out)
	}
	if !strings.Contains(out, "https://b.example: HTTP error") {
		t.Fatalf("audit mode should list failures:\n%s", out)
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{"": ModeErrors, "errors": ModeErrors, " AUDIT ": ModeAudit}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q)=%q,%v want %q", in, got, err, want)
		}
	}
	if _, err := ParseMode("verbose"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
