package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/dispatch"
	"github.com/hamed0406/sitecheck/internal/domain"
	apimw "github.com/hamed0406/sitecheck/internal/httpapi/middleware"
	"github.com/hamed0406/sitecheck/internal/repo"
	"github.com/hamed0406/sitecheck/internal/report"
)

type Server struct {
	Logger     *zap.Logger
	Runs       repo.RunStore
	Dispatcher *dispatch.Dispatcher
	MaxURLs    int
}

func NewServer(l *zap.Logger, runs repo.RunStore, d *dispatch.Dispatcher, maxURLs int) *Server {
	if maxURLs < 1 {
		maxURLs = 500
	}
	return &Server{Logger: l, Runs: runs, Dispatcher: d, MaxURLs: maxURLs}
}

type RouterOptions struct {
	Keys           apimw.Keys
	AllowedOrigins []string // empty allows any origin
	RPM            int      // per key or IP; <= 0 disables
	Burst          int
}

func (s *Server) Router(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(apimw.Logger(s.Logger))
	r.Use(corsHandler(opts.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/checks", func(r chi.Router) {
		r.Use(apimw.RateLimit(opts.Keys, opts.RPM, opts.Burst))

		r.With(apimw.RequireAny(opts.Keys)).Get("/latest", s.handleLatestRun)
		r.With(apimw.RequireAny(opts.Keys)).Get("/{id}", s.handleGetRun)
		// a pass makes outbound requests on the caller's behalf
		r.With(apimw.RequireAdmin(opts.Keys)).Post("/", s.handleRunCheck)
	})

	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return cors.AllowAll().Handler
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	})
}

type checkPayload struct {
	URLs []string `json:"urls"`
}

type runResponse struct {
	*domain.Run
	Summary report.Summary `json:"summary"`
}

func newRunResponse(run *domain.Run) runResponse {
	return runResponse{Run: run, Summary: report.Summarize(run.Results)}
}

func (s *Server) handleRunCheck(w http.ResponseWriter, r *http.Request) {
	var p checkPayload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	if len(p.URLs) > s.MaxURLs {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("too many urls: %d > %d", len(p.URLs), s.MaxURLs))
		return
	}

	run := domain.NewRun(len(p.URLs))
	run.Finish(s.Dispatcher.Collect(r.Context(), p.URLs))

	if err := s.Runs.Save(r.Context(), run); err != nil {
		s.Logger.Warn("run_save_error", zap.String("run_id", run.ID.String()), zap.Error(err))
	}

	resp := newRunResponse(run)
	s.Logger.Info("run_completed",
		zap.String("run_id", run.ID.String()),
		zap.Int("urls", resp.Summary.Total),
		zap.Int("failed", resp.Summary.FailedCount()),
		zap.Duration("elapsed", run.FinishedAt.Sub(run.StartedAt)),
	)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.Runs.Latest(r.Context())
	s.writeRun(w, run, err)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}
	run, err := s.Runs.Get(r.Context(), id)
	s.writeRun(w, run, err)
}

func (s *Server) writeRun(w http.ResponseWriter, run *domain.Run, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, http.StatusNotFound, "run not found")
	case err != nil:
		s.Logger.Warn("run_load_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load run")
	default:
		writeJSON(w, http.StatusOK, newRunResponse(run))
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
