package typeset

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/resume-assistant/internal/rendering"
	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalDocument = `\documentclass{article}
\begin{document}
Hello World
\end{document}
`

func requirePDFLaTeX(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("pdflatex"); err != nil {
		t.Skip("pdflatex not available, skipping test")
	}
}

// fakeBinary writes a shell script standing in for pdflatex.
func fakeBinary(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-pdflatex")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func TestNewRenderer_Defaults(t *testing.T) {
	r := NewRenderer("", 0, nil)
	assert.Equal(t, DefaultBinary, r.Binary)
	assert.Equal(t, DefaultTimeout, r.Timeout)
	assert.NotNil(t, r.Logger)
}

func TestRender_MissingBinary(t *testing.T) {
	r := NewRenderer("definitely-not-pdflatex", time.Second, nil)
	job := (&Scratch{Dir: t.TempDir()}).NewJob()

	_, err := r.Render(context.Background(), minimalDocument, job)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Contains(t, err.Error(), "not found in PATH")
}

func TestRender_Timeout(t *testing.T) {
	r := NewRenderer(fakeBinary(t, "sleep 5"), 100*time.Millisecond, nil)
	job := (&Scratch{Dir: t.TempDir()}).NewJob()

	start := time.Now()
	_, err := r.Render(context.Background(), minimalDocument, job)
	assert.Less(t, time.Since(start), 4*time.Second)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.True(t, renderErr.Timeout)
	assert.Contains(t, err.Error(), "timeout")
}

func TestRender_NonZeroExit(t *testing.T) {
	r := NewRenderer(fakeBinary(t, `echo "! Undefined control sequence."; exit 1`), time.Second, nil)
	job := (&Scratch{Dir: t.TempDir()}).NewJob()

	_, err := r.Render(context.Background(), minimalDocument, job)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.False(t, renderErr.Timeout)
	assert.Contains(t, renderErr.Message, "Undefined control sequence")
	assert.Contains(t, renderErr.LogOutput, "Undefined control sequence")
}

func TestRender_MissingOutput(t *testing.T) {
	r := NewRenderer(fakeBinary(t, "exit 0"), time.Second, nil)
	job := (&Scratch{Dir: t.TempDir()}).NewJob()

	_, err := r.Render(context.Background(), minimalDocument, job)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Contains(t, err.Error(), "PDF was not generated")
}

func TestRender_InvalidOutput(t *testing.T) {
	dir := t.TempDir()
	job := (&Scratch{Dir: dir}).NewJob()
	r := NewRenderer(fakeBinary(t, `echo "not a pdf" > "`+job.Path("pdf")+`"`), time.Second, nil)

	_, err := r.Render(context.Background(), minimalDocument, job)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Contains(t, err.Error(), "invalid")
}

func TestRender_Cancelled(t *testing.T) {
	r := NewRenderer(fakeBinary(t, "sleep 5"), 10*time.Second, nil)
	job := (&Scratch{Dir: t.TempDir()}).NewJob()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, minimalDocument, job)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.False(t, renderErr.Timeout)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFirstError(t *testing.T) {
	log := "This is pdfTeX\n(./doc.tex\n! Missing $ inserted.\n<inserted text>\n! Emergency stop.\n"
	assert.Equal(t, "Missing $ inserted.", firstError(log))
	assert.Equal(t, "", firstError("all good"))
}

func TestRender_MinimalDocument(t *testing.T) {
	requirePDFLaTeX(t)

	job := (&Scratch{Dir: t.TempDir()}).NewJob()
	data, err := NewRenderer("", 0, nil).Render(context.Background(), minimalDocument, job)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
	assert.FileExists(t, job.Path("log"))

	require.NoError(t, job.Cleanup())
	assert.NoFileExists(t, job.Path("pdf"))
	assert.NoFileExists(t, job.Path("tex"))
}

func TestRender_MalformedDocumentDoesNotHang(t *testing.T) {
	requirePDFLaTeX(t)

	job := (&Scratch{Dir: t.TempDir()}).NewJob()
	doc := "\\documentclass{article}\n\\begin{document}\n\\undefinedmacro\n"

	_, err := NewRenderer("", 20*time.Second, nil).Render(context.Background(), doc, job)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.False(t, renderErr.Timeout)
	assert.NotEmpty(t, renderErr.LogOutput)
}

func TestRender_EmptyRecord(t *testing.T) {
	requirePDFLaTeX(t)

	doc, err := rendering.Compose(&types.ResumeRecord{})
	require.NoError(t, err)

	job := (&Scratch{Dir: t.TempDir()}).NewJob()
	data, err := NewRenderer("", 0, nil).Render(context.Background(), doc, job)
	require.NoError(t, err)

	pages, err := PageCount(data)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pages, 1)
}

func TestRender_MITExample(t *testing.T) {
	requirePDFLaTeX(t)

	record := &types.ResumeRecord{
		Education: []types.Education{{
			University:     "MIT",
			Degree:         "BS CS",
			StartYear:      2020,
			GraduationYear: 2024,
			GPA:            4.0,
			Description:    "Built a compiler\nTaught TA sections",
		}},
		Skills: types.Skills{"Python", "Go"},
	}
	doc, err := rendering.Compose(record)
	require.NoError(t, err)

	job := (&Scratch{Dir: t.TempDir()}).NewJob()
	data, err := NewRenderer("", 0, nil).Render(context.Background(), doc, job)
	require.NoError(t, err)

	text, err := ExtractText(data)
	require.NoError(t, err)
	flat := squash(text)
	for _, want := range []string{"MIT", "BS CS", "Built a compiler", "Taught TA sections", "Python, Go"} {
		assert.Contains(t, flat, squash(want))
	}
}

func TestRender_ReservedCharactersRoundTrip(t *testing.T) {
	requirePDFLaTeX(t)

	reserved := []string{
		`R&D`, `100%`, `$5`, `C#`, `snake_case`, `{braces}`, `~tilde`, `x^2`, `back\slash`,
	}
	record := &types.ResumeRecord{
		Personal: types.PersonalDetails{FirstName: `Jane & {Co}`},
		WorkExperience: []types.WorkExperience{{
			Company:  `Smith & Sons`,
			JobTitle: `Eng_1 #2`,
			WorkDesc: strings.Join(reserved, "\n"),
		}},
		Skills: types.Skills{`C#`, `F#`, `50%`},
	}
	doc, err := rendering.Compose(record)
	require.NoError(t, err)

	job := (&Scratch{Dir: t.TempDir()}).NewJob()
	data, err := NewRenderer("", 0, nil).Render(context.Background(), doc, job)
	require.NoError(t, err)

	text, err := ExtractText(data)
	require.NoError(t, err)
	flat := squash(text)
	for _, want := range append(reserved, `Smith & Sons`, `Eng_1 #2`, `C#, F#, 50%`) {
		assert.Contains(t, flat, squash(want))
	}
}

func TestRender_LigaturesKeepLiteralText(t *testing.T) {
	requirePDFLaTeX(t)

	literal := []string{`a--b`, `x---y`, `<<init>>`, `,,low`}
	record := &types.ResumeRecord{
		Projects: []types.Project{{
			ProjectName: `Parser`,
			ProjectDesc: strings.Join(append(literal, "why?`", "wow!`"), "\n"),
		}},
	}
	doc, err := rendering.Compose(record)
	require.NoError(t, err)

	job := (&Scratch{Dir: t.TempDir()}).NewJob()
	data, err := NewRenderer("", 0, nil).Render(context.Background(), doc, job)
	require.NoError(t, err)

	text, err := ExtractText(data)
	require.NoError(t, err)
	flat := squash(text)
	for _, want := range literal {
		assert.Contains(t, flat, want)
	}
	assert.Contains(t, flat, "why?")
	assert.Contains(t, flat, "wow!")
	assert.NotContains(t, flat, "¿")
	assert.NotContains(t, flat, "¡")
	assert.NotContains(t, flat, "–")
	assert.NotContains(t, flat, "«")
}

func TestRender_EveryTypesettableRune(t *testing.T) {
	requirePDFLaTeX(t)

	var line strings.Builder
	for r := rune(0xA0); r <= 0x17F; r++ {
		if escaped := rendering.EscapeLaTeX(string(r)); escaped == string(r) {
			line.WriteRune(r)
		}
	}
	line.WriteString(" ĦħŦŧ")
	record := &types.ResumeRecord{
		WorkExperience: []types.WorkExperience{{Company: "Acme", WorkDesc: line.String()}},
	}
	doc, err := rendering.Compose(record)
	require.NoError(t, err)

	job := (&Scratch{Dir: t.TempDir()}).NewJob()
	_, err = NewRenderer("", 0, nil).Render(context.Background(), doc, job)
	require.NoError(t, err, "runes: %s", line.String())
}

func TestInspect_RejectsGarbage(t *testing.T) {
	_, err := PageCount(nil)
	var inspectErr *InspectError
	assert.ErrorAs(t, err, &inspectErr)

	_, err = PageCount([]byte("not a pdf at all"))
	assert.Error(t, err)

	_, err = ExtractText([]byte("%PDF-1.4 truncated"))
	assert.Error(t, err)
}
