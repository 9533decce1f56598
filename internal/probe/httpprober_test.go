package probe

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

func TestHTTPProber_StatusOK(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("want GET, got %s", r.Method)
		}
		w.WriteHeader(200)
		w.Write([]byte("ok"))
	}))
	defer s.Close()

	p := NewHTTPProber(2*time.Second, 2*time.Second)
	out := p.Probe(context.Background(), s.URL)
	if out.URL != s.URL {
		t.Fatalf("want url %q, got %q", s.URL, out.URL)
	}
	if out.Outcome.Kind != domain.Success {
		t.Fatalf("want success, got %+v", out)
	}
	if out.Outcome.StatusCode != 200 {
		t.Fatalf("want status 200, got %d", out.Outcome.StatusCode)
	}
	if out.ErrorMessage() != "" {
		t.Fatalf("success should have no error message, got %q", out.ErrorMessage())
	}
	if out.ResponseTime < 0 {
		t.Fatalf("response time should be >= 0, got %v", out.ResponseTime)
	}
	if out.Timestamp.IsZero() {
		t.Fatalf("timestamp should be set")
	}
}

func TestHTTPProber_NotFoundKeepsStatus(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer s.Close()

	p := NewHTTPProber(2*time.Second, 2*time.Second)
	out := p.Probe(context.Background(), s.URL+"/not-found")
	if out.Outcome.Kind != domain.HTTPError {
		t.Fatalf("want http error, got %+v", out)
	}
	if out.Outcome.StatusCode != 404 {
		t.Fatalf("want status 404, got %d", out.Outcome.StatusCode)
	}
	if out.Outcome.Message != "HTTP error" {
		t.Fatalf("want message %q, got %q", "HTTP error", out.Outcome.Message)
	}
}

func TestHTTPProber_Status500(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", 500)
	}))
	defer s.Close()

	out := NewHTTPProber(2*time.Second, 2*time.Second).Probe(context.Background(), s.URL)
	if out.Outcome.Kind != domain.HTTPError || out.Outcome.StatusCode != 500 {
		t.Fatalf("want http error 500, got %+v", out)
	}
}

func TestHTTPProber_FollowsRedirectToSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	s := httptest.NewServer(mux)
	defer s.Close()

	out := NewHTTPProber(2*time.Second, 2*time.Second).Probe(context.Background(), s.URL+"/old")
	if out.Outcome.Kind != domain.Success || out.Outcome.StatusCode != 200 {
		t.Fatalf("want success 200 after redirect, got %+v", out)
	}
}

func TestHTTPProber_TimeoutSetsStatusZero(t *testing.T) {
	// Server sleeps longer than the read timeout
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
		w.WriteHeader(200)
	}))
	defer s.Close()

	p := NewHTTPProber(time.Second, 50*time.Millisecond)
	out := p.Probe(context.Background(), s.URL)
	if out.Outcome.Kind != domain.OtherError {
		t.Fatalf("want other error due to timeout, got %+v", out)
	}
	if out.Outcome.StatusCode != 0 {
		t.Fatalf("want status 0 on transport error, got %d", out.Outcome.StatusCode)
	}
	if !strings.HasPrefix(out.Outcome.Message, "Other error:") {
		t.Fatalf("want Other error prefix, got %q", out.Outcome.Message)
	}
	if out.Outcome.Cause != domain.CauseTimeout {
		t.Fatalf("want timeout cause, got %q", out.Outcome.Cause)
	}
	if out.ResponseTime < 50*time.Millisecond {
		t.Fatalf("response time should cover the wait, got %v", out.ResponseTime)
	}
}

func TestHTTPProber_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	out := NewHTTPProber(time.Second, time.Second).Probe(context.Background(), "http://"+addr)
	if out.Outcome.Kind != domain.OtherError || out.Outcome.StatusCode != 0 {
		t.Fatalf("want other error with status 0, got %+v", out)
	}
	if !strings.HasPrefix(out.Outcome.Message, "Other error: ") {
		t.Fatalf("want Other error prefix, got %q", out.Outcome.Message)
	}
	if out.Outcome.Cause != domain.CauseRefused {
		t.Fatalf("want refused cause, got %q", out.Outcome.Cause)
	}
}

func TestHTTPProber_UntrustedCertificate(t *testing.T) {
	s := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer s.Close()

	out := NewHTTPProber(time.Second, time.Second).Probe(context.Background(), s.URL)
	if out.Outcome.Kind != domain.OtherError {
		t.Fatalf("want other error, got %+v", out)
	}
	if out.Outcome.Cause != domain.CauseTLS {
		t.Fatalf("want tls cause, got %q (%s)", out.Outcome.Cause, out.Outcome.Message)
	}
}

func TestHTTPProber_InvalidTargets(t *testing.T) {
	p := NewHTTPProber(time.Second, time.Second)
	for _, target := range []string{"", "example.com", "ftp://example.com", "https://", "http://%zz"} {
		out := p.Probe(context.Background(), target)
		if out.URL != target {
			t.Fatalf("url should pass through as-is: want %q got %q", target, out.URL)
		}
		if out.Outcome.Kind != domain.OtherError || out.Outcome.StatusCode != 0 {
			t.Fatalf("%q: want other error with status 0, got %+v", target, out)
		}
		if out.Outcome.Cause != domain.CauseInvalidURL {
			t.Fatalf("%q: want invalid_url cause, got %q", target, out.Outcome.Cause)
		}
		if !strings.HasPrefix(out.Outcome.Message, "Other error: ") {
			t.Fatalf("%q: want Other error prefix, got %q", target, out.Outcome.Message)
		}
	}
}

func TestHTTPProber_ClassificationIsStable(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer s.Close()

	p := NewHTTPProber(time.Second, time.Second)
	first := p.Probe(context.Background(), s.URL)
	for i := 0; i < 3; i++ {
		again := p.Probe(context.Background(), s.URL)
		if again.Outcome.Kind != first.Outcome.Kind || again.Outcome.StatusCode != first.Outcome.StatusCode {
			t.Fatalf("run %d: want %+v, got %+v", i, first.Outcome, again.Outcome)
		}
	}
}

func TestNewHTTPProber_Defaults(t *testing.T) {
	p := NewHTTPProber(0, -1)
	if p.ConnectTimeout != DefaultTimeout || p.ReadTimeout != DefaultTimeout {
		t.Fatalf("want default timeouts, got %+v", p)
	}
}

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		code int
		want domain.Kind
	}{
		{200, domain.Success},
		{204, domain.Success},
		{299, domain.Success},
		{301, domain.HTTPError},
		{404, domain.HTTPError},
		{503, domain.HTTPError},
	}
	for _, c := range cases {
		got := ClassifyStatus(c.code)
		if got.Kind != c.want || got.StatusCode != c.code {
			t.Fatalf("ClassifyStatus(%d)=%+v want kind %s", c.code, got, c.want)
		}
	}
}
