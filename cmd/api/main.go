package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/config"
	"github.com/hamed0406/sitecheck/internal/dispatch"
	"github.com/hamed0406/sitecheck/internal/httpapi"
	apimw "github.com/hamed0406/sitecheck/internal/httpapi/middleware"
	"github.com/hamed0406/sitecheck/internal/logging"
	"github.com/hamed0406/sitecheck/internal/probe"
	"github.com/hamed0406/sitecheck/internal/repo/memory"
)

func main() {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(logging.Options{Dir: cfg.LogDir, File: "sitecheck-api.log", Level: cfg.LogLevel})
	if err != nil {
		log.Fatal(err)
	}

	d := dispatch.New(logger, probe.NewHTTPProber(cfg.ConnectTimeout, cfg.ReadTimeout), cfg.Concurrency)
	api := httpapi.NewServer(logger, memory.New(cfg.KeepRuns), d, cfg.MaxURLsPerRequest)

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: api.Router(httpapi.RouterOptions{
			Keys:           apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys},
			AllowedOrigins: cfg.AllowedOrigins,
			RPM:            cfg.PublicRPM,
			Burst:          cfg.PublicBurst,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_listen_failed", zap.Error(err))
			_ = logger.Sync()
			log.Fatal(err)
		}
	case <-ctx.Done():
		logger.Info("api_shutdown")
	}

	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := multierr.Combine(srv.Shutdown(sctx), logger.Sync()); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
