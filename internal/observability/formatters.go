// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-assistant/internal/fetch"
	"github.com/jonathan/resume-assistant/internal/generate"
	"github.com/jonathan/resume-assistant/internal/tailoring"
	"github.com/jonathan/resume-assistant/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintResume outputs a short summary of a resume record.
func (p *Printer) PrintResume(rec *types.ResumeRecord) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	name := strings.TrimSpace(rec.Personal.FirstName + " " + rec.Personal.LastName)
	sb.WriteString(fmt.Sprintf("Name:      %s\n", name))
	if rec.Personal.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:     %s\n", rec.Personal.Email))
	}
	sb.WriteString(fmt.Sprintf("Education: %d\n", len(rec.Education)))
	sb.WriteString(fmt.Sprintf("Work:      %d\n", len(rec.WorkExperience)))
	sb.WriteString(fmt.Sprintf("Projects:  %d\n", len(rec.Projects)))

	if len(rec.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills:    %s\n", truncate(strings.Join(rec.Skills, ", "), 40)))
	}

	p.printBox("RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPosting outputs the fetched text of a job posting.
func (p *Printer) PrintPosting(posting *fetch.Posting) {
	if posting == nil {
		return
	}

	var sb strings.Builder
	platform := string(posting.Platform)
	if posting.Platform == "" || posting.Platform == fetch.PlatformUnknown {
		platform = "generic"
	}
	sb.WriteString(fmt.Sprintf("URL:      %s\n", posting.URL))
	sb.WriteString(fmt.Sprintf("Platform: %s\n", platform))
	sb.WriteString(fmt.Sprintf("Browser:  %t\n", posting.Rendered))
	sb.WriteString(fmt.Sprintf("Length:   %d chars\n\n", len(posting.Text)))

	lines := nonEmptyLines(posting.Text)
	count := min(len(lines), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(lines[i] + "\n")
	}
	if len(lines) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more lines\n", len(lines)-maxItemsToShow))
	}

	p.printBox("JOB POSTING", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJob outputs a bookmarked job and its extracted details.
func (p *Printer) PrintJob(job *types.Job) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name: %s\n", job.Name))
	if job.URL != "" {
		sb.WriteString(fmt.Sprintf("URL:  %s\n", job.URL))
	}
	sb.WriteString("\n")

	if job.Description != "" {
		sb.WriteString("Description:\n")
		for _, line := range firstLines(job.Description, 3) {
			sb.WriteString(fmt.Sprintf("  %s\n", line))
		}
		sb.WriteString("\n")
	}

	if job.Requirements != "" {
		sb.WriteString("Requirements:\n")
		for _, line := range firstLines(job.Requirements, maxItemsToShow) {
			sb.WriteString(fmt.Sprintf("  • %s\n", strings.TrimLeft(line, "-*• ")))
		}
	}

	p.printBox("JOB", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTailoringFailures outputs the entries that kept their original text.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintTailoringFailures(failed []tailoring.Failure) {
	if len(failed) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ ALL ENTRIES TAILORED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d entries kept their original text:\n\n", len(failed)))

	for i, f := range failed {
		sb.WriteString(fmt.Sprintf("⚠ %s[%d]\n", f.Section, f.Index))
		sb.WriteString(fmt.Sprintf("  %s\n", f.Error))
		if i < len(failed)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("UNTAILORED ENTRIES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDocument outputs where a generated document was written.
func (p *Printer) PrintDocument(doc *generate.Document, path string) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Kind:   %s\n", doc.Kind))
	sb.WriteString(fmt.Sprintf("ID:     %s\n", doc.ID))
	sb.WriteString(fmt.Sprintf("Size:   %d bytes\n", len(doc.PDF)))
	sb.WriteString(fmt.Sprintf("Output: %s", path))

	p.printBox("GENERATED DOCUMENT", sb.String())
}

// PrintInterviewPrep outputs generated interview preparation.
func (p *Printer) PrintInterviewPrep(prep *types.InterviewPrep) {
	if prep == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString("Technical:\n")
	for _, line := range firstLines(prep.Technical, maxItemsToShow) {
		sb.WriteString(fmt.Sprintf("  %s\n", line))
	}
	sb.WriteString("\nHR:\n")
	for _, line := range firstLines(prep.HR, maxItemsToShow) {
		sb.WriteString(fmt.Sprintf("  %s\n", line))
	}

	if len(prep.LeetCode) > 0 {
		sb.WriteString(fmt.Sprintf("\nLeetCode (%d):\n", len(prep.LeetCode)))
		count := min(len(prep.LeetCode), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", prep.LeetCode[i].Question))
		}
		if len(prep.LeetCode) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(prep.LeetCode)-maxItemsToShow))
		}
	}

	p.printBox("INTERVIEW PREP", strings.TrimSuffix(sb.String(), "\n"))
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// firstLines returns up to n non-empty lines of text, noting how many were left out.
func firstLines(text string, n int) []string {
	lines := nonEmptyLines(text)
	if len(lines) <= n {
		return lines
	}
	out := append([]string{}, lines[:n]...)
	return append(out, fmt.Sprintf("... and %d more", len(lines)-n))
}
