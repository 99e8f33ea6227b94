package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/prompts"
	"github.com/jonathan/resume-assistant/internal/safeguard"
	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/types"
)

// GenerateInterviewPrep asks the model for technical questions, HR questions
// and a LeetCode practice list in parallel, stores them and returns the result.
// The user's stored resume is included when present.
func (s *Service) GenerateInterviewPrep(ctx context.Context, userID string, id uuid.UUID) (*types.InterviewPrep, error) {
	job, err := s.store.GetJob(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(job.Description) == "" && strings.TrimSpace(job.Requirements) == "" {
		return nil, types.NewValidationError("description", "job has no description; fetch the posting or add one first")
	}

	resumeJSON := ""
	rec, err := s.store.GetResume(ctx, userID)
	switch {
	case err == nil:
		data, mErr := json.Marshal(rec)
		if mErr != nil {
			return nil, fmt.Errorf("failed to encode resume: %w", mErr)
		}
		resumeJSON = string(data)
	case errors.Is(err, store.ErrNotFound):
	default:
		return nil, err
	}

	tmpl, err := prompts.Get("interview.json", "job-context")
	if err != nil {
		return nil, fmt.Errorf("failed to load interview prompt: %w", err)
	}
	jobContext := prompts.Format(tmpl, map[string]string{
		"JobName":        job.Name,
		"JobDescription": safeguard.Prepare(s.logger, "job description", job.Description),
		"Requirements":   safeguard.Prepare(s.logger, "job requirements", job.Requirements),
		"Resume":         resumeJSON,
	})

	start := time.Now()
	prep := &types.InterviewPrep{JobID: job.ID, UserID: userID}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := s.interviewCall(gCtx, "technical", jobContext, QuestionsMaxTokens, false)
		prep.Technical = text
		return err
	})
	g.Go(func() error {
		text, err := s.interviewCall(gCtx, "hr", jobContext, QuestionsMaxTokens, false)
		prep.HR = text
		return err
	})
	g.Go(func() error {
		text, err := s.interviewCall(gCtx, "leetcode", jobContext, LeetCodeMaxTokens, true)
		if err != nil {
			return err
		}
		questions, err := decodeLeetCode(text)
		if err != nil {
			return &llm.Error{Message: "malformed LeetCode list", Cause: err}
		}
		prep.LeetCode = questions
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.store.PutInterviewPrep(ctx, prep); err != nil {
		return nil, err
	}
	s.logger.Info("interview prep generated",
		slog.String("job_id", id.String()),
		slog.Int("leetcode_questions", len(prep.LeetCode)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return prep, nil
}

func (s *Service) interviewCall(ctx context.Context, key, jobContext string, maxTokens int, asJSON bool) (string, error) {
	if s.llm == nil {
		return "", llm.NotConfigured("interview prep")
	}
	system, err := prompts.Get("interview.json", "interview-system")
	if err != nil {
		return "", fmt.Errorf("failed to load interview prompt: %w", err)
	}
	tmpl, err := prompts.Get("interview.json", key)
	if err != nil {
		return "", fmt.Errorf("failed to load interview prompt %s: %w", key, err)
	}
	text, err := s.llm.Complete(ctx, llm.Request{
		Prompt:    prompts.Format(tmpl, map[string]string{"Context": jobContext}),
		System:    system,
		MaxTokens: maxTokens,
		Tier:      llm.TierStandard,
		JSON:      asJSON,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", &llm.Error{Message: key + " questions came back empty"}
	}
	return strings.TrimSpace(text), nil
}

// LeetCodeHint returns short solving steps for a practice problem. Hints are
// cached by problem URL.
func (s *Service) LeetCodeHint(ctx context.Context, q types.LeetCodeQuestion) (string, error) {
	q.Question = strings.TrimSpace(q.Question)
	q.URL = strings.TrimSpace(q.URL)
	if q.Question == "" {
		return "", types.NewValidationError("question", "is required")
	}
	if !isLeetCodeURL(q.URL) {
		return "", types.NewValidationError("url", "must be a leetcode.com problem URL")
	}

	cached, err := s.store.GetLeetCodeHint(ctx, q.URL)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	user, err := prompts.Get("interview.json", "leetcode-hint-user")
	if err != nil {
		return "", fmt.Errorf("failed to load hint prompt: %w", err)
	}
	hint, err := s.complete(ctx, "interview.json", "leetcode-hint-system",
		prompts.Format(user, map[string]string{"Question": q.Question, "URL": q.URL}),
		HintMaxTokens,
	)
	if err != nil {
		return "", err
	}

	if err := s.store.PutLeetCodeHint(ctx, q.URL, q.Question, hint); err != nil {
		s.logger.Warn("failed to cache leetcode hint", slog.String("url", q.URL), slog.Any("error", err))
	}
	return hint, nil
}

func isLeetCodeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return (host == "leetcode.com" || strings.HasSuffix(host, ".leetcode.com")) && strings.HasPrefix(u.Path, "/problems/")
}
