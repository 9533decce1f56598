package probe

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

const (
	DefaultTimeout = 5 * time.Second

	// upper bound on how much of a body is read before closing it
	maxDrain = 64 << 10
)

// HTTPProber issues a single GET per call. Every call gets its own client, so
// probes running side by side share no connection state.
type HTTPProber struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	UserAgent      string
}

func NewHTTPProber(connect, read time.Duration) *HTTPProber {
	if connect <= 0 {
		connect = DefaultTimeout
	}
	if read <= 0 {
		read = DefaultTimeout
	}
	return &HTTPProber{
		ConnectTimeout: connect,
		ReadTimeout:    read,
		UserAgent:      "sitecheck/1.0",
	}
}

func (h *HTTPProber) client() *http.Client {
	dialer := &net.Dialer{Timeout: h.ConnectTimeout}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   h.ConnectTimeout,
			ResponseHeaderTimeout: h.ReadTimeout,
			DisableKeepAlives:     true,
		},
		Timeout: h.ConnectTimeout + h.ReadTimeout,
	}
}

func (h *HTTPProber) Probe(ctx context.Context, target string) domain.ProbeResult {
	if err := validateTarget(target); err != nil {
		return domain.NewProbeResult(target, domain.Failed(domain.CauseInvalidURL, err), 0)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return domain.NewProbeResult(target, domain.Failed(domain.CauseInvalidURL, err), 0)
	}
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}

	c := h.client()
	defer c.CloseIdleConnections()

	start := time.Now()
	resp, err := c.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return domain.NewProbeResult(target, domain.Failed(Classify(err), err), elapsed)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))

	return domain.NewProbeResult(target, ClassifyStatus(resp.StatusCode), elapsed)
}

// ClassifyStatus maps a final HTTP status onto an outcome: 2xx is a success,
// anything else is an HTTP error that keeps the server's code.
func ClassifyStatus(code int) domain.Outcome {
	if code >= 200 && code < 300 {
		return domain.Succeeded(code)
	}
	return domain.HTTPFailed(code)
}

func validateTarget(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL %q: scheme must be http or https", target)
	}
	if u.Host == "" {
		return fmt.Errorf("unsupported URL %q: missing host", target)
	}
	return nil
}
