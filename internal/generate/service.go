// Package generate orchestrates resume and cover-letter PDF generation.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jonathan/resume-assistant/internal/letter"
	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/prompts"
	"github.com/jonathan/resume-assistant/internal/rendering"
	"github.com/jonathan/resume-assistant/internal/safeguard"
	"github.com/jonathan/resume-assistant/internal/tailoring"
	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/jonathan/resume-assistant/internal/typeset"
)

// Kind identifies the generated document type.
type Kind string

const (
	KindResume         Kind = "resume"
	KindTailoredResume Kind = "tailored_resume"
	KindCoverLetter    Kind = "cover_letter"
)

// CoverLetterMaxTokens caps the generated letter.
const CoverLetterMaxTokens = 1024

// Document is a generated PDF. Its scratch files are already gone when it is returned.
type Document struct {
	ID       string
	Kind     Kind
	PDF      []byte
	Filename string
	// Failed lists tailored entries that kept their original text.
	Failed []tailoring.Failure
}

// Deps wires the service's collaborators.
type Deps struct {
	Composer *rendering.Composer
	Renderer *typeset.Renderer
	Tailor   *tailoring.Tailor
	LLM      llm.Client
	Letters  *letter.Writer
	// ResumeScratch and LetterScratch may be the same directory.
	ResumeScratch *typeset.Scratch
	LetterScratch *typeset.Scratch
	Logger        *slog.Logger
}

// Service implements the generation operations.
type Service struct {
	deps Deps
}

// NewService returns a Service. Composer, Letters and Logger default when nil.
func NewService(deps Deps) (*Service, error) {
	if deps.Renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	if deps.ResumeScratch == nil {
		return nil, fmt.Errorf("resume scratch directory is required")
	}
	if deps.LetterScratch == nil {
		deps.LetterScratch = deps.ResumeScratch
	}
	if deps.Composer == nil {
		c, err := rendering.NewComposer("")
		if err != nil {
			return nil, err
		}
		deps.Composer = c
	}
	if deps.Letters == nil {
		deps.Letters = letter.NewWriter()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps}, nil
}

// GenerateResume typesets rec as a PDF.
func (s *Service) GenerateResume(ctx context.Context, rec *types.ResumeRecord) (*Document, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return s.typesetRecord(ctx, KindResume, rec, nil)
}

// GenerateTailoredResume rewrites rec for jobDescription and typesets the result.
func (s *Service) GenerateTailoredResume(ctx context.Context, rec *types.ResumeRecord, jobDescription string) (*Document, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, types.NewValidationError("job_description", "is required")
	}
	if s.deps.Tailor == nil {
		return nil, llm.NotConfigured("tailoring")
	}

	res, err := s.deps.Tailor.Tailor(ctx, rec, jobDescription)
	if err != nil {
		return nil, err
	}
	return s.typesetRecord(ctx, KindTailoredResume, res.Record, res.Failed)
}

func (s *Service) typesetRecord(ctx context.Context, kind Kind, rec *types.ResumeRecord, failed []tailoring.Failure) (doc *Document, err error) {
	job := s.deps.ResumeScratch.NewJob()
	start := time.Now()
	defer s.finish(job, kind, start, &doc, &err)

	source, err := s.deps.Composer.Compose(rec)
	if err != nil {
		return nil, err
	}
	pdf, err := s.deps.Renderer.Render(ctx, source, job)
	if err != nil {
		return nil, err
	}
	return &Document{
		ID:       job.ID,
		Kind:     kind,
		PDF:      pdf,
		Filename: job.ID + ".pdf",
		Failed:   failed,
	}, nil
}

// GenerateCoverLetter asks the LLM for a letter and writes it as a PDF.
func (s *Service) GenerateCoverLetter(ctx context.Context, rec *types.ResumeRecord, jobDescription string) (doc *Document, err error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, types.NewValidationError("job_description", "is required")
	}
	if s.deps.LLM == nil {
		return nil, llm.NotConfigured("cover letter generation")
	}

	job := s.deps.LetterScratch.NewJob()
	start := time.Now()
	defer s.finish(job, KindCoverLetter, start, &doc, &err)

	text, err := s.coverLetterText(ctx, rec, jobDescription)
	if err != nil {
		return nil, err
	}

	path := job.Path("pdf")
	if err := s.deps.Letters.WriteFile(path, text); err != nil {
		return nil, &typeset.RenderError{Message: "failed to write cover letter", Cause: err}
	}
	pdf, err := readPDF(path)
	if err != nil {
		return nil, err
	}
	return &Document{ID: job.ID, Kind: KindCoverLetter, PDF: pdf, Filename: job.ID + ".pdf"}, nil
}

func (s *Service) coverLetterText(ctx context.Context, rec *types.ResumeRecord, jobDescription string) (string, error) {
	system, err := prompts.Get("cover_letter.json", "cover-letter-system")
	if err != nil {
		return "", err
	}
	user, err := prompts.Get("cover_letter.json", "cover-letter-user")
	if err != nil {
		return "", err
	}
	resumeJSON, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to encode resume: %w", err)
	}

	return s.deps.LLM.Complete(ctx, llm.Request{
		Prompt: prompts.Format(user, map[string]string{
			"Resume":         string(resumeJSON),
			"JobDescription": safeguard.Prepare(s.deps.Logger, "job description", jobDescription),
		}),
		System:    system,
		MaxTokens: CoverLetterMaxTokens,
		Tier:      llm.TierStandard,
	})
}

// finish removes the job's scratch files on every exit path and logs the outcome.
func (s *Service) finish(job typeset.Job, kind Kind, start time.Time, doc **Document, err *error) {
	if cerr := job.Cleanup(); cerr != nil {
		s.deps.Logger.Warn("scratch cleanup failed", slog.String("job_id", job.ID), slog.Any("error", cerr))
	}

	attrs := []any{
		slog.String("kind", string(kind)),
		slog.String("job_id", job.ID),
		slog.Duration("elapsed", time.Since(start)),
	}
	if *err != nil {
		s.deps.Logger.Error("generation failed", append(attrs, slog.Any("error", *err))...)
		return
	}
	s.deps.Logger.Info("generated document", append(attrs, slog.Int("bytes", len((*doc).PDF)))...)
}

func readPDF(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &typeset.RenderError{Message: "PDF was not generated", Cause: err}
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, &typeset.RenderError{Message: "generated file is not a PDF"}
	}
	return data, nil
}
