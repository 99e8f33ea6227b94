package jobs

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/prompts"
	"github.com/jonathan/resume-assistant/internal/safeguard"
)

// MaxPostingChars bounds the posting text sent to the model.
const MaxPostingChars = 30000

// Summary is the LLM-written digest of a job posting.
type Summary struct {
	Description  string
	Requirements string
}

func (s *Service) summarize(ctx context.Context, posting string) (*Summary, error) {
	if len(posting) > MaxPostingChars {
		posting = posting[:MaxPostingChars]
	}
	user, err := prompts.Get("jobs.json", "posting-user")
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs prompt: %w", err)
	}
	prompt := prompts.Format(user, map[string]string{"Posting": safeguard.Prepare(s.logger, "job posting", posting)})

	var out Summary
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := s.complete(gCtx, "jobs.json", "description-system", prompt, DescriptionMaxTokens)
		out.Description = text
		return err
	})
	g.Go(func() error {
		text, err := s.complete(gCtx, "jobs.json", "requirements-system", prompt, RequirementsMaxTokens)
		out.Requirements = text
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// complete runs one prompt with the system instruction stored under file/systemKey.
func (s *Service) complete(ctx context.Context, file, systemKey, prompt string, maxTokens int) (string, error) {
	if s.llm == nil {
		return "", llm.NotConfigured(systemKey)
	}
	system, err := prompts.Get(file, systemKey)
	if err != nil {
		return "", fmt.Errorf("failed to load prompt %s: %w", systemKey, err)
	}
	text, err := s.llm.Complete(ctx, llm.Request{
		Prompt:    prompt,
		System:    system,
		MaxTokens: maxTokens,
		Tier:      llm.TierStandard,
	})
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &llm.Error{Message: systemKey + " returned an empty response"}
	}
	return text, nil
}
