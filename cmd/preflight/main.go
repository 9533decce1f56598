// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"

	"go.uber.org/multierr"

	"github.com/hamed0406/sitecheck/internal/config"
	"github.com/hamed0406/sitecheck/internal/source"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(os.Stderr, "✖", e)
		}
		fail("configuration invalid")
	}
	ok(fmt.Sprintf("timeouts: connect=%s read=%s", cfg.ConnectTimeout, cfg.ReadTimeout))

	if cfg.Concurrency == 0 {
		warn("CONCURRENCY=0 — one probe per URL with no upper bound.")
	} else {
		ok(fmt.Sprintf("CONCURRENCY=%d", cfg.Concurrency))
	}

	urls, err := source.Load(cfg.URLsFile, cfg.BaseURL)
	if err != nil {
		fail(err.Error())
	}
	blank := 0
	for _, u := range urls {
		if u == "" {
			blank++
		}
	}
	ok(fmt.Sprintf("%s: %d entries", cfg.URLsFile, len(urls)))
	if len(urls) == 0 {
		warn("URL list is empty — a run will check nothing.")
	}
	if blank > 0 {
		warn(fmt.Sprintf("%d blank entries — each will be reported as a failed probe.", blank))
	}

	if cfg.SlackWebhook == "" {
		warn("SLACK_WEBHOOK_URL empty — failures will not be notified.")
	} else {
		ok("SLACK_WEBHOOK_URL present")
	}

	switch {
	case len(cfg.AdminAPIKeys) == 0 && len(cfg.PublicAPIKeys) == 0:
		warn("no API keys — anyone reaching the API can start a check run.")
	case len(cfg.AdminAPIKeys) == 0:
		warn("ADMIN_API_KEYS empty — POST /api/checks will 403.")
	}
	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty — API allows any origin.")
	} else {
		ok(fmt.Sprintf("ALLOWED_ORIGINS=%v", cfg.AllowedOrigins))
	}

	ok("preflight passed")
}
