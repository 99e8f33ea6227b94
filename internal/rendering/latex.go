package rendering

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/resume-assistant/internal/types"
)

//go:embed templates/resume.tex.tmpl
var templateFS embed.FS

const defaultTemplateName = "resume.tex.tmpl"

// Composer renders resume records into LaTeX source.
// It holds only the parsed template and is safe for concurrent use.
type Composer struct {
	tmpl *template.Template
}

var defaultComposer = mustDefaultComposer()

func mustDefaultComposer() *Composer {
	c, err := NewComposer("")
	if err != nil {
		panic(err)
	}
	return c
}

// NewComposer parses the resume template. An empty templatePath selects the
// embedded template; otherwise the file is read from disk and must use the
// same (( )) delimiters and Document fields.
func NewComposer(templatePath string) (*Composer, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return nil, err
	}
	return &Composer{tmpl: tmpl}, nil
}

// Compose builds the LaTeX document for r with the embedded template.
func Compose(r *types.ResumeRecord) (string, error) {
	return defaultComposer.Compose(r)
}

// Compose builds the LaTeX document for r. The output depends only on r.
func (c *Composer) Compose(r *types.ResumeRecord) (string, error) {
	return c.Execute(BuildDocument(r))
}

// Execute renders an already built document tree.
func (c *Composer) Execute(doc *Document) (string, error) {
	var result strings.Builder
	if err := c.tmpl.Execute(&result, doc); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return result.String(), nil
}

// parseTemplate reads and parses a LaTeX template
func parseTemplate(templatePath string) (*template.Template, error) {
	var content []byte
	var err error
	if templatePath == "" {
		content, err = templateFS.ReadFile("templates/" + defaultTemplateName)
	} else {
		content, err = os.ReadFile(templatePath)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}

	// LaTeX is full of braces, so the template uses (( )) instead of {{ }}
	tmpl, err := template.New(defaultTemplateName).
		Delims("((", "))").
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}

	return tmpl, nil
}
