// Package tailoring rewrites the free-text sections of a resume to match a job description.
package tailoring

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-assistant/internal/types"
)

// Section names a rewritable collection of the resume.
type Section string

// Sections in presentation order.
const (
	SectionEducation Section = "education"
	SectionWork      Section = "work_experience"
	SectionProjects  Section = "projects"
)

var sectionOrder = map[Section]int{SectionEducation: 0, SectionWork: 1, SectionProjects: 2}

// Policy decides what happens when a single entry cannot be rewritten.
type Policy string

const (
	// PolicyStrict fails the whole operation on the first failed entry.
	PolicyStrict Policy = "strict"
	// PolicyKeepOriginal keeps the original text of failed entries and reports them.
	PolicyKeepOriginal Policy = "keep_original"
)

// ParsePolicy parses a policy name; empty selects PolicyStrict.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyStrict:
		return PolicyStrict, nil
	case PolicyKeepOriginal:
		return PolicyKeepOriginal, nil
	default:
		return "", fmt.Errorf("unknown tailoring policy %q (want %q or %q)", s, PolicyStrict, PolicyKeepOriginal)
	}
}

const (
	// DefaultConcurrency is the number of entries rewritten at once.
	DefaultConcurrency = 4
	// DefaultEntryTimeout bounds the rewrite of a single entry.
	DefaultEntryTimeout = 60 * time.Second
)

// Options configures a Tailor.
type Options struct {
	Policy       Policy
	Concurrency  int
	EntryTimeout time.Duration
	Logger       *slog.Logger
}

// Failure records an entry that kept its original text.
type Failure struct {
	Section Section `json:"section"`
	Index   int     `json:"index"`
	Error   string  `json:"error"`
}

// Result is a tailored copy of the input record.
type Result struct {
	Record *types.ResumeRecord
	// Failed is only populated under PolicyKeepOriginal.
	Failed []Failure
}

// Tailor rewrites resume entries concurrently.
type Tailor struct {
	rewriter Rewriter
	opts     Options
}

// New returns a Tailor with defaults applied for zero option values.
func New(rewriter Rewriter, opts Options) *Tailor {
	if opts.Policy == "" {
		opts.Policy = PolicyStrict
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.EntryTimeout <= 0 {
		opts.EntryTimeout = DefaultEntryTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Tailor{rewriter: rewriter, opts: opts}
}

// unit is one entry's free-text field inside the output copy.
type unit struct {
	section Section
	index   int
	text    *string
}

// Tailor returns a copy of rec whose education, work and project descriptions
// are rewritten for jobDescription. Personal details and skills are copied
// unchanged and entry order is preserved regardless of completion order.
func (t *Tailor) Tailor(ctx context.Context, rec *types.ResumeRecord, jobDescription string) (*Result, error) {
	if rec == nil {
		return nil, types.NewValidationError("resume", "is required")
	}
	out := rec.Clone()
	units := collectUnits(out)

	start := time.Now()
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(t.opts.Concurrency)

	var mu sync.Mutex
	var failed []Failure

	for _, u := range units {
		if strings.TrimSpace(*u.text) == "" {
			continue
		}
		g.Go(func() error {
			rewritten, err := t.rewriteOne(gCtx, *u.text, jobDescription)
			if err == nil {
				*u.text = rewritten
				return nil
			}

			tErr := &TailorError{Section: u.section, Index: u.index, Message: "rewrite failed", Cause: err}
			if t.opts.Policy == PolicyStrict {
				return tErr
			}

			t.opts.Logger.Warn("keeping original text for entry",
				slog.String("section", string(u.section)),
				slog.Int("index", u.index),
				slog.Any("error", err),
			)
			mu.Lock()
			failed = append(failed, Failure{Section: u.section, Index: u.index, Error: err.Error()})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("tailoring cancelled: %w", err)
	}

	sort.Slice(failed, func(i, j int) bool {
		if failed[i].Section != failed[j].Section {
			return sectionOrder[failed[i].Section] < sectionOrder[failed[j].Section]
		}
		return failed[i].Index < failed[j].Index
	})

	t.opts.Logger.Info("tailored resume",
		slog.Int("entries", len(units)),
		slog.Int("failed", len(failed)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return &Result{Record: out, Failed: failed}, nil
}

func (t *Tailor) rewriteOne(ctx context.Context, text, jobDescription string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.opts.EntryTimeout)
	defer cancel()

	raw, err := t.rewriter.Rewrite(ctx, text, jobDescription)
	if err != nil {
		return "", err
	}
	normalized := Normalize(raw)
	if normalized == "" {
		return "", fmt.Errorf("empty rewrite")
	}
	return normalized, nil
}

func collectUnits(r *types.ResumeRecord) []unit {
	units := make([]unit, 0, len(r.Education)+len(r.WorkExperience)+len(r.Projects))
	for i := range r.Education {
		units = append(units, unit{SectionEducation, i, &r.Education[i].Description})
	}
	for i := range r.WorkExperience {
		units = append(units, unit{SectionWork, i, &r.WorkExperience[i].WorkDesc})
	}
	for i := range r.Projects {
		units = append(units, unit{SectionProjects, i, &r.Projects[i].ProjectDesc})
	}
	return units
}
