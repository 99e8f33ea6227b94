// Package server provides the HTTP REST API for the resume assistant.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/resume-assistant/internal/generate"
	"github.com/jonathan/resume-assistant/internal/jobs"
	"github.com/jonathan/resume-assistant/internal/server/ratelimit"
	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/jonathan/resume-assistant/internal/typeset"
)

// DocumentGenerator produces PDF documents from resume records.
type DocumentGenerator interface {
	GenerateResume(ctx context.Context, rec *types.ResumeRecord) (*generate.Document, error)
	GenerateTailoredResume(ctx context.Context, rec *types.ResumeRecord, jobDescription string) (*generate.Document, error)
	GenerateCoverLetter(ctx context.Context, rec *types.ResumeRecord, jobDescription string) (*generate.Document, error)
}

// DefaultSweepInterval is how often stale scratch files are removed.
const DefaultSweepInterval = 10 * time.Minute

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       store.Store
	generator   DocumentGenerator
	jobs        *jobs.Service
	rateLimiter *ratelimit.Limiter
	logger      *slog.Logger

	allowedOrigins map[string]bool
	scratches      []*typeset.Scratch
	scratchMaxAge  time.Duration
	sweepInterval  time.Duration
}

// Config holds server configuration
type Config struct {
	Port           int
	AllowedOrigins []string
	RateLimit      *ratelimit.Config
	// Scratches are swept for files older than ScratchMaxAge every SweepInterval.
	Scratches     []*typeset.Scratch
	ScratchMaxAge time.Duration
	SweepInterval time.Duration
	Logger        *slog.Logger
}

// New creates a new server instance
func New(cfg Config, st store.Store, generator DocumentGenerator, jobService *jobs.Service) (*Server, error) {
	if st == nil || generator == nil || jobService == nil {
		return nil, fmt.Errorf("server requires a store, a document generator and a job service")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sweepInterval := cfg.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	s := &Server{
		store:          st,
		generator:      generator,
		jobs:           jobService,
		rateLimiter:    ratelimit.NewLimiter(cfg.RateLimit),
		logger:         logger,
		allowedOrigins: make(map[string]bool, len(cfg.AllowedOrigins)),
		scratches:      cfg.Scratches,
		scratchMaxAge:  cfg.ScratchMaxAge,
		sweepInterval:  sweepInterval,
	}
	for _, origin := range cfg.AllowedOrigins {
		s.allowedOrigins[origin] = true
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      300 * time.Second, // tailoring runs one LLM call per entry
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler wrapped in middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Stateless document generation
	mux.HandleFunc("POST /resume/pdf", s.handleResumePDF)
	mux.HandleFunc("POST /resume/tailored-pdf", s.handleTailoredResumePDF)
	mux.HandleFunc("POST /cover-letter/pdf", s.handleCoverLetterPDF)

	// Stored resume
	mux.HandleFunc("GET /users/{id}/resume", s.handleGetResume)
	mux.HandleFunc("PUT /users/{id}/resume", s.handlePutResume)
	mux.HandleFunc("POST /users/{id}/resume/pdf", s.handleStoredResumePDF)

	// Job bookmarks
	mux.HandleFunc("GET /users/{id}/jobs", s.handleListJobs)
	mux.HandleFunc("POST /users/{id}/jobs", s.handleCreateJob)
	mux.HandleFunc("GET /users/{id}/jobs/{job_id}", s.handleGetJob)
	mux.HandleFunc("DELETE /users/{id}/jobs/{job_id}", s.handleDeleteJob)
	mux.HandleFunc("POST /users/{id}/jobs/{job_id}/fetch", s.handleFetchJob)
	mux.HandleFunc("POST /users/{id}/jobs/{job_id}/cover-letter", s.handleJobCoverLetter)
	mux.HandleFunc("POST /users/{id}/jobs/{job_id}/interview-prep", s.handleGenerateInterviewPrep)
	mux.HandleFunc("GET /users/{id}/jobs/{job_id}/interview-prep", s.handleGetInterviewPrep)
	mux.HandleFunc("POST /leetcode/hint", s.handleLeetCodeHint)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	go s.sweepLoop(sweepCtx)

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	s.logger.Info("server stopped")
	return nil
}

// sweepLoop removes scratch files abandoned by crashed renders.
func (s *Server) sweepLoop(ctx context.Context) {
	if len(s.scratches) == 0 || s.scratchMaxAge <= 0 {
		return
	}
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	s.sweep()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Server) sweep() {
	for _, scratch := range s.scratches {
		removed, err := scratch.Sweep(s.scratchMaxAge)
		if err != nil {
			s.logger.Warn("scratch sweep failed", slog.String("dir", scratch.Dir), slog.Any("error", err))
		}
		if removed > 0 {
			s.logger.Info("removed stale scratch files", slog.String("dir", scratch.Dir), slog.Int("count", removed))
		}
	}
}
