package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind classifies how a single probe resolved. The zero Kind is not a valid
// outcome so an unset result never reads as a success.
type Kind int

const (
	Success Kind = iota + 1
	HTTPError
	OtherError
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case HTTPError:
		return "http_error"
	case OtherError:
		return "other_error"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "success":
		*k = Success
	case "http_error":
		*k = HTTPError
	case "other_error":
		*k = OtherError
	default:
		return fmt.Errorf("unknown outcome kind %q", string(b))
	}
	return nil
}

// Cause narrows an OtherError down to the transport stage that failed.
type Cause string

const (
	CauseNone       Cause = ""
	CauseDNS        Cause = "dns"
	CauseTimeout    Cause = "timeout"
	CauseRefused    Cause = "refused"
	CauseTLS        Cause = "tls"
	CauseInvalidURL Cause = "invalid_url"
	CauseOther      Cause = "other"
)

const (
	HTTPErrorMessage = "HTTP error"
	OtherErrorPrefix = "Other error: "
)

// Outcome is a tagged variant: Kind decides which of the other fields are meaningful.
type Outcome struct {
	Kind       Kind   `json:"kind"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message,omitempty"`
	Cause      Cause  `json:"cause,omitempty"`
}

func Succeeded(code int) Outcome {
	return Outcome{Kind: Success, StatusCode: code}
}

// HTTPFailed keeps the server's status code.
func HTTPFailed(code int) Outcome {
	return Outcome{Kind: HTTPError, StatusCode: code, Message: HTTPErrorMessage}
}

// Valid reports whether the outcome was produced by one of the constructors.
func (o Outcome) Valid() bool {
	switch o.Kind {
	case Success:
		return o.StatusCode >= 100 && o.StatusCode <= 599
	case HTTPError:
		return o.StatusCode != 0
	case OtherError:
		return true
	}
	return false
}

// Failed is a transport-level failure; status is always 0.
func Failed(cause Cause, err error) Outcome {
	desc := "unknown"
	if err != nil {
		desc = err.Error()
	}
	if cause == CauseNone {
		cause = CauseOther
	}
	return Outcome{Kind: OtherError, Message: OtherErrorPrefix + desc, Cause: cause}
}

// ProbeResult is the outcome of one HTTP attempt against one URL.
type ProbeResult struct {
	URL          string        `json:"url"`
	Outcome      Outcome       `json:"outcome"`
	ResponseTime time.Duration `json:"-"`
	Timestamp    time.Time     `json:"timestamp"`
}

// NewProbeResult stamps the result with the current time. Negative durations are clamped to zero.
func NewProbeResult(url string, out Outcome, elapsed time.Duration) ProbeResult {
	if elapsed < 0 {
		elapsed = 0
	}
	return ProbeResult{
		URL:          url,
		Outcome:      out,
		ResponseTime: elapsed,
		Timestamp:    time.Now().UTC(),
	}
}

// ResponseTimeMS returns the elapsed time in whole milliseconds.
func (r ProbeResult) ResponseTimeMS() int64 {
	return r.ResponseTime.Milliseconds()
}

func (r ProbeResult) Failed() bool {
	return r.Outcome.Kind != Success
}

// ErrorMessage is empty for successful probes.
func (r ProbeResult) ErrorMessage() string {
	if r.Outcome.Kind == Success {
		return ""
	}
	return r.Outcome.Message
}

type probeResultJSON struct {
	URL            string    `json:"url"`
	Outcome        Outcome   `json:"outcome"`
	ResponseTimeMS int64     `json:"response_time_ms"`
	Timestamp      time.Time `json:"timestamp"`
}

func (r ProbeResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(probeResultJSON{
		URL:            r.URL,
		Outcome:        r.Outcome,
		ResponseTimeMS: r.ResponseTimeMS(),
		Timestamp:      r.Timestamp,
	})
}

func (r *ProbeResult) UnmarshalJSON(b []byte) error {
	var v probeResultJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = ProbeResult{
		URL:          v.URL,
		Outcome:      v.Outcome,
		ResponseTime: time.Duration(v.ResponseTimeMS) * time.Millisecond,
		Timestamp:    v.Timestamp,
	}
	return nil
}
