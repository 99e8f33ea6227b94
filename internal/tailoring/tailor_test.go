package tailoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *types.ResumeRecord {
	return &types.ResumeRecord{
		Personal: types.PersonalDetails{FirstName: "Jane", Email: "jane@example.com"},
		Education: []types.Education{
			{University: "MIT", Description: "edu A"},
		},
		WorkExperience: []types.WorkExperience{
			{Company: "A", WorkDesc: "work A"},
			{Company: "B", WorkDesc: "work B"},
			{Company: "C", WorkDesc: "work C"},
		},
		Projects: []types.Project{
			{ProjectName: "P", ProjectDesc: "proj A"},
		},
		Skills: types.Skills{"Go", "SQL"},
	}
}

// upper rewrites text to upper case after a delay that is longest for the first entries.
func upper(delays map[string]time.Duration) RewriterFunc {
	return func(ctx context.Context, text, _ string) (string, error) {
		if d, ok := delays[text]; ok {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		return strings.ToUpper(text), nil
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)

	p, err = ParsePolicy(" KEEP_ORIGINAL ")
	require.NoError(t, err)
	assert.Equal(t, PolicyKeepOriginal, p)

	_, err = ParsePolicy("lenient")
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	tl := New(upper(nil), Options{})
	assert.Equal(t, PolicyStrict, tl.opts.Policy)
	assert.Equal(t, DefaultConcurrency, tl.opts.Concurrency)
	assert.Equal(t, DefaultEntryTimeout, tl.opts.EntryTimeout)
	assert.NotNil(t, tl.opts.Logger)
}

func TestTailor_RewritesAndPreservesOrder(t *testing.T) {
	// earlier entries finish last
	delays := map[string]time.Duration{
		"work A": 60 * time.Millisecond,
		"work B": 30 * time.Millisecond,
	}
	rec := sampleRecord()

	res, err := New(upper(delays), Options{Concurrency: 8}).Tailor(context.Background(), rec, "Go developer")
	require.NoError(t, err)

	out := res.Record
	assert.Equal(t, "EDU A", out.Education[0].Description)
	require.Len(t, out.WorkExperience, 3)
	assert.Equal(t, "WORK A", out.WorkExperience[0].WorkDesc)
	assert.Equal(t, "WORK B", out.WorkExperience[1].WorkDesc)
	assert.Equal(t, "WORK C", out.WorkExperience[2].WorkDesc)
	assert.Equal(t, []string{"A", "B", "C"}, []string{
		out.WorkExperience[0].Company, out.WorkExperience[1].Company, out.WorkExperience[2].Company,
	})
	assert.Equal(t, "PROJ A", out.Projects[0].ProjectDesc)
	assert.Empty(t, res.Failed)
}

func TestTailor_PersonalAndSkillsUnchanged(t *testing.T) {
	rec := sampleRecord()

	res, err := New(upper(nil), Options{}).Tailor(context.Background(), rec, "jd")
	require.NoError(t, err)
	assert.Equal(t, rec.Personal, res.Record.Personal)
	assert.Equal(t, rec.Skills, res.Record.Skills)
}

func TestTailor_DoesNotMutateInput(t *testing.T) {
	rec := sampleRecord()

	_, err := New(upper(nil), Options{}).Tailor(context.Background(), rec, "jd")
	require.NoError(t, err)
	assert.Equal(t, "work A", rec.WorkExperience[0].WorkDesc)
}

func TestTailor_SkipsEmptyText(t *testing.T) {
	var calls atomic.Int32
	rw := RewriterFunc(func(_ context.Context, text, _ string) (string, error) {
		calls.Add(1)
		return "x", nil
	})
	rec := &types.ResumeRecord{
		WorkExperience: []types.WorkExperience{{WorkDesc: ""}, {WorkDesc: "  \n "}, {WorkDesc: "real"}},
	}

	res, err := New(rw, Options{}).Tailor(context.Background(), rec, "jd")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "", res.Record.WorkExperience[0].WorkDesc)
	assert.Equal(t, "x", res.Record.WorkExperience[2].WorkDesc)
}

func TestTailor_NormalizesResponses(t *testing.T) {
	rw := RewriterFunc(func(context.Context, string, string) (string, error) {
		return "- Led team\r\n\r\n\n* Shipped product\n\n", nil
	})
	rec := &types.ResumeRecord{Projects: []types.Project{{ProjectDesc: "x"}}}

	res, err := New(rw, Options{}).Tailor(context.Background(), rec, "jd")
	require.NoError(t, err)
	assert.Equal(t, "Led team\nShipped product", res.Record.Projects[0].ProjectDesc)
}

func failSecondWork(base RewriterFunc) RewriterFunc {
	return func(ctx context.Context, text, jd string) (string, error) {
		if text == "work B" {
			return "", errors.New("quota exceeded")
		}
		return base(ctx, text, jd)
	}
}

func TestTailor_StrictPolicyFailsWholeRequest(t *testing.T) {
	res, err := New(failSecondWork(upper(nil)), Options{Policy: PolicyStrict}).Tailor(context.Background(), sampleRecord(), "jd")
	require.Error(t, err)
	assert.Nil(t, res)

	var tErr *TailorError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, SectionWork, tErr.Section)
	assert.Equal(t, 1, tErr.Index)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestTailor_StrictPolicyEmptyResponseFails(t *testing.T) {
	rw := RewriterFunc(func(context.Context, string, string) (string, error) {
		return "\n\n  \n", nil
	})
	rec := &types.ResumeRecord{Education: []types.Education{{Description: "x"}}}

	_, err := New(rw, Options{}).Tailor(context.Background(), rec, "jd")
	var tErr *TailorError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, SectionEducation, tErr.Section)
	assert.Contains(t, err.Error(), "empty rewrite")
}

func TestTailor_KeepOriginalPolicyIsolatesFailure(t *testing.T) {
	res, err := New(failSecondWork(upper(nil)), Options{Policy: PolicyKeepOriginal}).Tailor(context.Background(), sampleRecord(), "jd")
	require.NoError(t, err)

	work := res.Record.WorkExperience
	assert.Equal(t, "WORK A", work[0].WorkDesc)
	assert.Equal(t, "work B", work[1].WorkDesc)
	assert.Equal(t, "WORK C", work[2].WorkDesc)

	require.Len(t, res.Failed, 1)
	assert.Equal(t, SectionWork, res.Failed[0].Section)
	assert.Equal(t, 1, res.Failed[0].Index)
	assert.Contains(t, res.Failed[0].Error, "quota exceeded")
}

func TestTailor_KeepOriginalFailuresAreSorted(t *testing.T) {
	rw := RewriterFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("down")
	})

	res, err := New(rw, Options{Policy: PolicyKeepOriginal}).Tailor(context.Background(), sampleRecord(), "jd")
	require.NoError(t, err)
	require.Len(t, res.Failed, 5)

	got := make([]string, len(res.Failed))
	for i, f := range res.Failed {
		got[i] = fmt.Sprintf("%s[%d]", f.Section, f.Index)
	}
	assert.Equal(t, []string{
		"education[0]", "work_experience[0]", "work_experience[1]", "work_experience[2]", "projects[0]",
	}, got)
}

func TestTailor_EntryTimeout(t *testing.T) {
	rw := RewriterFunc(func(ctx context.Context, _ string, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	rec := &types.ResumeRecord{Education: []types.Education{{Description: "x"}}}

	start := time.Now()
	_, err := New(rw, Options{EntryTimeout: 20 * time.Millisecond}).Tailor(context.Background(), rec, "jd")
	assert.Less(t, time.Since(start), 2*time.Second)

	var tErr *TailorError
	require.ErrorAs(t, err, &tErr)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestTailor_ConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	rw := RewriterFunc(func(context.Context, string, string) (string, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return "ok", nil
	})
	rec := &types.ResumeRecord{}
	for i := 0; i < 10; i++ {
		rec.WorkExperience = append(rec.WorkExperience, types.WorkExperience{WorkDesc: "x"})
	}

	_, err := New(rw, Options{Concurrency: 2}).Tailor(context.Background(), rec, "jd")
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestTailor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(upper(map[string]time.Duration{"edu A": time.Second}), Options{Policy: PolicyKeepOriginal}).Tailor(ctx, sampleRecord(), "jd")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestTailor_NilRecord(t *testing.T) {
	_, err := New(upper(nil), Options{}).Tailor(context.Background(), nil, "jd")
	var vErr *types.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestLLMRewriter_BuildsRequest(t *testing.T) {
	var got llm.Request
	client := llm.ClientFunc(func(_ context.Context, req llm.Request) (string, error) {
		got = req
		return "rewritten", nil
	})

	out, err := NewLLMRewriter(client).Rewrite(context.Background(), "Built a compiler", "Compiler engineer at Acme")
	require.NoError(t, err)
	assert.Equal(t, "rewritten", out)

	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.Equal(t, llm.TierStandard, got.Tier)
	assert.NotEmpty(t, got.System)
	assert.Contains(t, got.Prompt, "Built a compiler")
	assert.Contains(t, got.Prompt, "Compiler engineer at Acme")
	assert.Contains(t, got.Prompt, "[BEGIN QUOTED JOB DESCRIPTION")
	assert.NotContains(t, got.Prompt, "{{.")
}

func TestLLMRewriter_PropagatesError(t *testing.T) {
	client := llm.ClientFunc(func(context.Context, llm.Request) (string, error) {
		return "", &llm.Error{Provider: llm.ProviderGemini, Message: "quota"}
	})
	rec := &types.ResumeRecord{Education: []types.Education{{Description: "x"}}}

	_, err := New(NewLLMRewriter(client), Options{}).Tailor(context.Background(), rec, "jd")
	var llmErr *llm.Error
	assert.ErrorAs(t, err, &llmErr)
	var tErr *TailorError
	assert.ErrorAs(t, err, &tErr)
}
