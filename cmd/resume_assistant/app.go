package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/resume-assistant/internal/config"
	"github.com/jonathan/resume-assistant/internal/generate"
	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/rendering"
	"github.com/jonathan/resume-assistant/internal/schemas"
	"github.com/jonathan/resume-assistant/internal/tailoring"
	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/jonathan/resume-assistant/internal/typeset"
)

// newLogger builds the process logger from the configured format and level.
func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}
}

// newLLMClient connects to the configured provider.
func newLLMClient(ctx context.Context, c *config.Config) (llm.Client, error) {
	apiKey := c.APIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("an API key for LLM provider %q is required (set GEMINI_API_KEY or ANTHROPIC_API_KEY)", c.LLMProvider)
	}
	client, err := llm.NewClient(ctx, c.LLMConfig(), apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// generatorParts are the collaborators of the document generator.
type generatorParts struct {
	service       *generate.Service
	resumeScratch *typeset.Scratch
	letterScratch *typeset.Scratch
}

// newGenerator wires the document generator. client may be nil for commands
// that never call the model.
func newGenerator(c *config.Config, client llm.Client, l *slog.Logger) (*generatorParts, error) {
	composer, err := rendering.NewComposer(c.Template)
	if err != nil {
		return nil, err
	}
	resumeScratch, err := typeset.NewScratch(c.ResumeScratchDir())
	if err != nil {
		return nil, err
	}
	letterScratch, err := typeset.NewScratch(c.LetterScratchDir())
	if err != nil {
		return nil, err
	}
	policy, err := tailoring.ParsePolicy(c.TailorPolicy)
	if err != nil {
		return nil, err
	}

	deps := generate.Deps{
		Composer:      composer,
		Renderer:      typeset.NewRenderer(c.PDFLatexPath, time.Duration(c.RenderTimeout), l),
		LLM:           client,
		ResumeScratch: resumeScratch,
		LetterScratch: letterScratch,
		Logger:        l,
	}
	if client != nil {
		deps.Tailor = tailoring.New(tailoring.NewLLMRewriter(client), tailoring.Options{
			Policy:      policy,
			Concurrency: c.TailorConcurrency,
			Logger:      l,
		})
	}

	svc, err := generate.NewService(deps)
	if err != nil {
		return nil, err
	}
	return &generatorParts{service: svc, resumeScratch: resumeScratch, letterScratch: letterScratch}, nil
}

// readResume loads and validates a resume JSON file.
func readResume(path string) (*types.ResumeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	rec, err := schemas.DecodeResume(data)
	if err != nil {
		return nil, fmt.Errorf("invalid resume %s: %w", path, err)
	}
	return rec, nil
}

// readText loads a job description file.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%s is empty", path)
	}
	return text, nil
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
