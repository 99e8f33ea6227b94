package tailoring

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/prompts"
	"github.com/jonathan/resume-assistant/internal/safeguard"
)

// DefaultMaxTokens caps each rewritten section.
const DefaultMaxTokens = 512

// Rewriter rewrites one free-text resume section for a job description.
type Rewriter interface {
	Rewrite(ctx context.Context, text, jobDescription string) (string, error)
}

// RewriterFunc adapts a function to the Rewriter interface.
type RewriterFunc func(ctx context.Context, text, jobDescription string) (string, error)

// Rewrite calls f.
func (f RewriterFunc) Rewrite(ctx context.Context, text, jobDescription string) (string, error) {
	return f(ctx, text, jobDescription)
}

// LLMRewriter rewrites sections with an LLM using the embedded tailoring prompts.
type LLMRewriter struct {
	Client    llm.Client
	Tier      llm.ModelTier
	MaxTokens int
}

// NewLLMRewriter returns an LLMRewriter with default tier and token limit.
func NewLLMRewriter(client llm.Client) *LLMRewriter {
	return &LLMRewriter{
		Client:    client,
		Tier:      llm.TierStandard,
		MaxTokens: DefaultMaxTokens,
	}
}

// Rewrite asks the model for a rewritten version of text. The raw response is
// returned; Normalize is applied by the Tailor.
func (r *LLMRewriter) Rewrite(ctx context.Context, text, jobDescription string) (string, error) {
	system, err := prompts.Get("tailoring.json", "rewrite-system")
	if err != nil {
		return "", fmt.Errorf("failed to load tailoring prompt: %w", err)
	}
	user, err := prompts.Get("tailoring.json", "rewrite-user")
	if err != nil {
		return "", fmt.Errorf("failed to load tailoring prompt: %w", err)
	}

	return r.Client.Complete(ctx, llm.Request{
		Prompt: prompts.Format(user, map[string]string{
			"Section":        text,
			"JobDescription": safeguard.Prepare(nil, "job description", jobDescription),
		}),
		System:    system,
		MaxTokens: r.MaxTokens,
		Tier:      r.Tier,
	})
}
