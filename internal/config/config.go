package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/hamed0406/sitecheck/internal/report"
)

type Config struct {
	URLsFile string // one URL per line, or an HTML page of links
	BaseURL  string // resolves relative links when URLsFile is HTML

	ConnectTimeout time.Duration // per-probe connect timeout
	ReadTimeout    time.Duration // per-probe read timeout
	Concurrency    int           // max probes in flight; 0 = one per URL

	ReportMode report.Mode
	NoColor    bool

	LogDir       string // logs directory
	LogLevel     string // debug | info | warn | error
	SlackWebhook string // empty disables notifications

	// HTTP API
	Addr              string   // API bind address, e.g. "127.0.0.1:8080" or ":8080" (Docker)
	PublicAPIKeys     []string // may run checks and read results
	AdminAPIKeys      []string
	AllowedOrigins    []string // CORS; empty allows all
	PublicRPM         int
	PublicBurst       int
	MaxURLsPerRequest int
	KeepRuns          int // runs kept in memory for GET /api/checks/*
}

const (
	DefaultTimeout     = 5 * time.Second
	DefaultConcurrency = 32
)

func FromEnv() Config {
	urls := os.Getenv("URLS_FILE")
	if urls == "" {
		urls = "data/websites.txt"
	}

	// TIMEOUT_MS sets both, the specific ones win
	timeout := durationMS("TIMEOUT_MS", DefaultTimeout)
	connect := durationMS("CONNECT_TIMEOUT_MS", timeout)
	read := durationMS("READ_TIMEOUT_MS", timeout)

	mode, err := report.ParseMode(os.Getenv("REPORT_MODE"))
	if err != nil {
		mode = report.ModeErrors
	}

	noColor := os.Getenv("NO_COLOR") != ""

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	// Bind address (Windows-friendly default)
	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	return Config{
		URLsFile:          urls,
		BaseURL:           os.Getenv("BASE_URL"),
		ConnectTimeout:    connect,
		ReadTimeout:       read,
		Concurrency:       intEnv("CONCURRENCY", DefaultConcurrency, 0),
		ReportMode:        mode,
		NoColor:           noColor,
		LogDir:            logDir,
		LogLevel:          strings.ToLower(os.Getenv("LOG_LEVEL")),
		SlackWebhook:      os.Getenv("SLACK_WEBHOOK_URL"),
		Addr:              addr,
		PublicAPIKeys:     splitList(os.Getenv("PUBLIC_API_KEYS")),
		AdminAPIKeys:      splitList(os.Getenv("ADMIN_API_KEYS")),
		AllowedOrigins:    splitList(os.Getenv("ALLOWED_ORIGINS")),
		PublicRPM:         intEnv("PUBLIC_RPM", 60, 0),
		PublicBurst:       intEnv("PUBLIC_BURST", 10, 1),
		MaxURLsPerRequest: intEnv("MAX_URLS_PER_REQUEST", 500, 1),
		KeepRuns:          intEnv("KEEP_RUNS", 20, 1),
	}
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var err error
	if strings.TrimSpace(c.URLsFile) == "" {
		err = multierr.Append(err, errors.New("URLS_FILE is empty"))
	}
	if c.ConnectTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("connect timeout must be positive, got %s", c.ConnectTimeout))
	}
	if c.ReadTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("read timeout must be positive, got %s", c.ReadTimeout))
	}
	if c.Concurrency < 0 {
		err = multierr.Append(err, fmt.Errorf("concurrency must be >= 0, got %d", c.Concurrency))
	}
	if _, perr := report.ParseMode(string(c.ReportMode)); perr != nil {
		err = multierr.Append(err, perr)
	}
	return err
}

func durationMS(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

func intEnv(key string, def, min int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= min {
			return n
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
