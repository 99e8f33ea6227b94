package typeset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the maximum time to wait for LaTeX compilation
	DefaultTimeout = 30 * time.Second
	// DefaultBinary is the typesetting toolchain entry point
	DefaultBinary = "pdflatex"

	maxLogOutput = 8 << 10
)

// Renderer compiles LaTeX documents with pdflatex.
type Renderer struct {
	Binary  string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewRenderer returns a Renderer with defaults applied for zero values.
func NewRenderer(binary string, timeout time.Duration, logger *slog.Logger) *Renderer {
	if binary == "" {
		binary = DefaultBinary
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{Binary: binary, Timeout: timeout, Logger: logger}
}

// Available reports whether the toolchain binary can be found.
func (r *Renderer) Available() error {
	if _, err := exec.LookPath(r.Binary); err != nil {
		return &RenderError{
			Message: fmt.Sprintf("%s not found in PATH. Please install a LaTeX distribution (e.g., TeX Live, MiKTeX)", r.Binary),
			Cause:   err,
		}
	}
	return nil
}

// Render writes document to the job's .tex file, compiles it and returns the
// PDF bytes. Intermediate files stay in the scratch directory under the job
// ID; the caller owns their deletion via Job.Cleanup.
func (r *Renderer) Render(ctx context.Context, document string, job Job) ([]byte, error) {
	if err := r.Available(); err != nil {
		return nil, err
	}

	texPath := job.Path("tex")
	if err := os.WriteFile(texPath, []byte(document), 0o644); err != nil {
		return nil, &RenderError{
			Message: fmt.Sprintf("failed to write LaTeX file: %s", texPath),
			Cause:   err,
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	// -interaction=nonstopmode and -halt-on-error make any input error
	// terminate the run instead of prompting on the terminal
	cmd := exec.CommandContext(runCtx, r.Binary,
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-no-shell-escape",
		"-output-directory", job.Dir,
		filepath.Base(texPath),
	)
	cmd.Dir = job.Dir
	cmd.WaitDelay = time.Second

	var output strings.Builder
	cmd.Stdout = &output
	cmd.Stderr = &output

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, &RenderError{
			Message:   fmt.Sprintf("%s exceeded %s", r.Binary, r.Timeout),
			LogOutput: r.readLog(job, output.String()),
			Timeout:   true,
			Cause:     runCtx.Err(),
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, &RenderError{Message: "render cancelled", Cause: err}
	}

	if runErr != nil {
		log := r.readLog(job, output.String())
		msg := "LaTeX compilation failed"
		if line := firstError(log); line != "" {
			msg += ": " + line
		}
		return nil, &RenderError{Message: msg, LogOutput: log, Cause: runErr}
	}

	pdfPath := job.Path("pdf")
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, &RenderError{
			Message:   "LaTeX compilation failed: PDF was not generated",
			LogOutput: r.readLog(job, output.String()),
			Cause:     err,
		}
	}

	pages, err := PageCount(data)
	if err != nil || pages < 1 {
		return nil, &RenderError{
			Message:   fmt.Sprintf("generated PDF is invalid (%d pages)", pages),
			LogOutput: r.readLog(job, output.String()),
			Cause:     err,
		}
	}

	r.Logger.Debug("typeset document",
		slog.String("job_id", job.ID),
		slog.Int("pages", pages),
		slog.Int("bytes", len(data)),
		slog.Duration("elapsed", elapsed),
	)
	return data, nil
}

// readLog prefers the toolchain's .log file and falls back to captured output.
func (r *Renderer) readLog(job Job, captured string) string {
	log := captured
	if data, err := os.ReadFile(job.Path("log")); err == nil && len(data) > 0 {
		log = string(data)
	}
	if len(log) > maxLogOutput {
		log = log[len(log)-maxLogOutput:]
	}
	return log
}

// firstError returns the first "! ..." diagnostic line of a TeX log.
func firstError(log string) string {
	for _, line := range strings.Split(log, "\n") {
		if strings.HasPrefix(line, "! ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "! "))
		}
	}
	return ""
}
