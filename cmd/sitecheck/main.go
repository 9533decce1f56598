package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/config"
	"github.com/hamed0406/sitecheck/internal/dispatch"
	"github.com/hamed0406/sitecheck/internal/logging"
	"github.com/hamed0406/sitecheck/internal/notify"
	"github.com/hamed0406/sitecheck/internal/probe"
	"github.com/hamed0406/sitecheck/internal/report"
	"github.com/hamed0406/sitecheck/internal/source"
)

const (
	exitOK     = 0
	exitFatal  = 1
	exitFailed = 2 // -fail-exit and at least one probe failed
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := config.FromEnv()

	fs := flag.NewFlagSet("sitecheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.URLsFile, "file", cfg.URLsFile, "URL list: one URL per line, or an .html page of links")
	fs.StringVar(&cfg.BaseURL, "base", cfg.BaseURL, "base URL for relative links when -file is HTML")
	timeout := fs.Duration("timeout", 0, "connect and read timeout (sets both)")
	fs.DurationVar(&cfg.ConnectTimeout, "connect-timeout", cfg.ConnectTimeout, "per-probe connect timeout")
	fs.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "per-probe read timeout")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "max probes in flight (0 = one per URL)")
	mode := fs.String("report", string(cfg.ReportMode), "aggregate listing: errors or audit")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colored output")
	failExit := fs.Bool("fail-exit", false, "exit with status 2 when any probe failed")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFatal
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if *timeout > 0 {
		if !set["connect-timeout"] {
			cfg.ConnectTimeout = *timeout
		}
		if !set["read-timeout"] {
			cfg.ReadTimeout = *timeout
		}
	}
	cfg.ReportMode = report.Mode(*mode)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "invalid configuration:", err)
		return exitFatal
	}
	// Validate accepted it, so this cannot fail
	reportMode, _ := report.ParseMode(string(cfg.ReportMode))

	logger, err := logging.New(logging.Options{Dir: cfg.LogDir, Level: cfg.LogLevel, Stderr: true})
	if err != nil {
		fmt.Fprintln(stderr, "warning: file logging disabled:", err)
		logger = zap.NewNop()
	}
	defer func() { _ = logger.Sync() }()

	urls, err := source.Load(cfg.URLsFile, cfg.BaseURL)
	if err != nil {
		logger.Error("load_urls_failed", zap.String("file", cfg.URLsFile), zap.Error(err))
		return exitFatal
	}

	prober := probe.NewHTTPProber(cfg.ConnectTimeout, cfg.ReadTimeout)
	d := dispatch.New(logger, prober, cfg.Concurrency)
	rep := report.New(stdout, reportMode, cfg.NoColor)

	pass := d.Dispatch(ctx, urls)
	summary := rep.Collect(pass.Results())
	pass.Wait()
	rep.PrintSummary(summary)

	logger.Info("run_completed",
		zap.Int("urls", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("http_errors", summary.HTTPErrors),
		zap.Int("other_errors", summary.OtherErrors),
	)

	var notifiers notify.Multi
	if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
		notifiers = append(notifiers, s)
	}
	if len(notifiers) > 0 {
		nctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := notify.Failures(nctx, notifiers, summary); err != nil {
			logger.Warn("notify_failed", zap.Error(err))
		}
		cancel()
	}

	if *failExit && summary.FailedCount() > 0 {
		return exitFailed
	}
	return exitOK
}
