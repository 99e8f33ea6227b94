// Package jobs manages job bookmarks and the material generated for them.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-assistant/internal/fetch"
	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/types"
)

// PostingFetcher retrieves the readable text of a job posting.
type PostingFetcher interface {
	Posting(ctx context.Context, url string) (*fetch.Posting, error)
}

// Token limits for each generated artefact.
const (
	DescriptionMaxTokens  = 400
	RequirementsMaxTokens = 500
	QuestionsMaxTokens    = 1500
	LeetCodeMaxTokens     = 2000
	HintMaxTokens         = 400
)

// Service implements job bookmarking and preparation on top of a Store.
type Service struct {
	store   store.Store
	llm     llm.Client
	fetcher PostingFetcher
	logger  *slog.Logger
}

// NewService returns a Service. fetcher may be nil when posting fetch is unavailable.
func NewService(st store.Store, client llm.Client, fetcher PostingFetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, llm: client, fetcher: fetcher, logger: logger}
}

// Create bookmarks a job for a user.
func (s *Service) Create(ctx context.Context, userID string, req *types.CreateJobRequest) (*types.Job, error) {
	if req == nil {
		return nil, types.NewValidationError("job", "is required")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.URL = strings.TrimSpace(req.URL)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	job := &types.Job{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        req.Name,
		URL:         req.URL,
		Description: req.Description,
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, types.NewValidationError("name", "a job with this name already exists")
		}
		return nil, err
	}
	s.logger.Info("job bookmarked", slog.String("user_id", userID), slog.String("job_id", job.ID.String()))
	return job, nil
}

// List returns the user's bookmarks.
func (s *Service) List(ctx context.Context, userID string) ([]types.Job, error) {
	return s.store.ListJobs(ctx, userID)
}

// Get returns a single bookmark.
func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*types.Job, error) {
	return s.store.GetJob(ctx, userID, id)
}

// Delete removes a bookmark together with its interview preparation.
func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return s.store.DeleteJob(ctx, userID, id)
}

// FetchDetails downloads the job's posting and stores an LLM-written
// description and requirements summary. The two summaries are requested in parallel.
func (s *Service) FetchDetails(ctx context.Context, userID string, id uuid.UUID) (*types.Job, error) {
	job, err := s.store.GetJob(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if job.URL == "" {
		return nil, types.NewValidationError("url", "job has no posting URL")
	}
	if s.fetcher == nil {
		return nil, &fetch.Error{URL: job.URL, Message: "posting fetch is not configured"}
	}

	start := time.Now()
	posting, err := s.fetcher.Posting(ctx, job.URL)
	if err != nil {
		return nil, err
	}

	summary, err := s.summarize(ctx, posting.Text)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateJobDetails(ctx, userID, id, summary.Description, summary.Requirements); err != nil {
		return nil, err
	}
	job.Description = summary.Description
	job.Requirements = summary.Requirements

	s.logger.Info("job details fetched",
		slog.String("job_id", id.String()),
		slog.String("platform", string(posting.Platform)),
		slog.Bool("rendered", posting.Rendered),
		slog.Duration("elapsed", time.Since(start)),
	)
	return job, nil
}

// InterviewPrep returns the stored preparation for a job.
func (s *Service) InterviewPrep(ctx context.Context, userID string, id uuid.UUID) (*types.InterviewPrep, error) {
	return s.store.GetInterviewPrep(ctx, userID, id)
}

// decodeLeetCode parses the model's JSON list of practice problems, dropping
// entries without a question.
func decodeLeetCode(raw string) ([]types.LeetCodeQuestion, error) {
	var questions []types.LeetCodeQuestion
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &questions); err != nil {
		return nil, fmt.Errorf("failed to parse LeetCode questions: %w", err)
	}
	out := questions[:0]
	for _, q := range questions {
		q.Question = strings.TrimSpace(q.Question)
		q.URL = strings.TrimSpace(q.URL)
		if q.Question != "" {
			out = append(out, q)
		}
	}
	return out, nil
}
