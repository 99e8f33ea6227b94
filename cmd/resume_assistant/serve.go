package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/fetch"
	"github.com/jonathan/resume-assistant/internal/jobs"
	"github.com/jonathan/resume-assistant/internal/server"
	"github.com/jonathan/resume-assistant/internal/server/ratelimit"
	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/typeset"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for generating resumes and cover letters and managing job bookmarks.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config, default 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	parts, err := newGenerator(cfg, client, logger)
	if err != nil {
		return fmt.Errorf("failed to set up document generation: %w", err)
	}
	if err := typeset.NewRenderer(cfg.PDFLatexPath, 0, logger).Available(); err != nil {
		logger.Warn("resume PDFs will fail until the LaTeX toolchain is installed", slog.Any("error", err))
	}

	var browser fetch.BrowserFunc
	if cfg.UseBrowser {
		browser = fetch.Chrome(fetch.DefaultBrowserTimeout, logger)
	}
	jobService := jobs.NewService(st, client, fetch.NewFetcher(browser, logger), logger)

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      ratelimit.NewConfig(cfg.RateLimit, cfg.RateBurst),
		Scratches:      []*typeset.Scratch{parts.resumeScratch, parts.letterScratch},
		ScratchMaxAge:  time.Duration(cfg.ScratchMaxAge),
		Logger:         logger,
	}, st, parts.service, jobService)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// openStore connects to PostgreSQL and applies migrations when a database URL
// is configured. Otherwise data lives in memory for the life of the process.
func openStore(ctx context.Context) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store; data is lost on restart")
		return store.NewMemory(), nil
	}
	if err := store.Migrate(ctx, cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	st, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return st, nil
}
