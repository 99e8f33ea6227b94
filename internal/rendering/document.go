package rendering

import (
	"strconv"
	"strings"

	"github.com/jonathan/resume-assistant/internal/types"
)

// Fragment is LaTeX source that is safe to splice into the template.
// Values are only produced by the helpers in this file, which escape all user text.
type Fragment string

// Document is the typed tree rendered by the resume template.
type Document struct {
	Header   Header
	Sections []Section
}

// Header is the centered name and contact block.
type Header struct {
	Name    Fragment
	Contact Fragment
}

// Empty reports whether the header has nothing to show.
func (h Header) Empty() bool {
	return h.Name == "" && h.Contact == ""
}

// Section is one titled block. Skills-style sections use Items instead of Entries.
type Section struct {
	Title   Fragment
	Entries []Entry
	Items   Fragment
}

// Entry is a two-line subheading followed by optional bullets.
type Entry struct {
	Heading      Fragment
	HeadingRight Fragment
	Sub          Fragment
	SubRight     Fragment
	Bullets      []Fragment
}

const contactSeparator Fragment = ` $|$ `

// Text escapes user text into a Fragment.
func Text(s string) Fragment {
	return Fragment(EscapeLaTeX(strings.TrimSpace(s)))
}

// Link renders an underlined hyperlink. An empty URL yields the plain label.
func Link(url string, label Fragment) Fragment {
	url = strings.TrimSpace(url)
	if url == "" {
		return label
	}
	return Fragment(`\href{` + EscapeURL(url) + `}{\underline{` + string(label) + `}}`)
}

// Join concatenates non-empty fragments with sep.
func Join(sep Fragment, parts ...Fragment) Fragment {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(string(sep))
		}
		b.WriteString(string(p))
	}
	return Fragment(b.String())
}

// Bullets turns a multi-line description into one escaped bullet per non-blank line.
func Bullets(text string) []Fragment {
	lines := types.SplitLines(text)
	if len(lines) == 0 {
		return nil
	}
	out := make([]Fragment, len(lines))
	for i, line := range lines {
		out[i] = Text(line)
	}
	return out
}

// BuildDocument converts a resume record into template nodes.
// Sections appear in the fixed order Education, Experience, Projects, Skills
// and are omitted when empty. A nil record yields an empty document.
func BuildDocument(r *types.ResumeRecord) *Document {
	doc := &Document{}
	if r == nil {
		return doc
	}

	doc.Header = buildHeader(r.Personal)

	if len(r.Education) > 0 {
		s := Section{Title: "Education"}
		for _, e := range r.Education {
			s.Entries = append(s.Entries, educationEntry(e))
		}
		doc.Sections = append(doc.Sections, s)
	}

	if len(r.WorkExperience) > 0 {
		s := Section{Title: "Experience"}
		for _, w := range r.WorkExperience {
			s.Entries = append(s.Entries, Entry{
				Heading:      Text(w.Company),
				HeadingRight: yearRange(w.StartYear, w.EndYear),
				Sub:          Text(w.JobTitle),
				SubRight:     Text(w.Location),
				Bullets:      Bullets(w.WorkDesc),
			})
		}
		doc.Sections = append(doc.Sections, s)
	}

	if len(r.Projects) > 0 {
		s := Section{Title: "Projects"}
		for _, p := range r.Projects {
			s.Entries = append(s.Entries, projectEntry(p))
		}
		doc.Sections = append(doc.Sections, s)
	}

	if skills := skillList(r.Skills); skills != "" {
		doc.Sections = append(doc.Sections, Section{Title: "Skills", Items: skills})
	}

	return doc
}

func buildHeader(p types.PersonalDetails) Header {
	var linkedin, github Fragment
	if h := handle(p.LinkedIn, "linkedin.com/in/"); h != "" {
		linkedin = Link("https://www.linkedin.com/in/"+h, Text("linkedin.com/in/"+h))
	}
	if h := handle(p.GitHub, "github.com/"); h != "" {
		github = Link("https://github.com/"+h, Text("github.com/"+h))
	}

	var email Fragment
	if e := strings.TrimSpace(p.Email); e != "" {
		email = Link("mailto:"+e, Text(e))
	}

	return Header{
		Name:    Text(p.FullName()),
		Contact: Join(contactSeparator, Text(p.Phone), email, linkedin, github),
	}
}

// handle reduces "https://www.linkedin.com/in/jane/" style input to "jane".
func handle(value, marker string) string {
	value = strings.TrimSpace(value)
	if idx := strings.Index(strings.ToLower(value), marker); idx >= 0 {
		value = value[idx+len(marker):]
	}
	value = strings.TrimPrefix(value, "@")
	if idx := strings.IndexAny(value, "?#"); idx >= 0 {
		value = value[:idx]
	}
	return strings.Trim(value, "/ ")
}

func educationEntry(e types.Education) Entry {
	degree := strings.TrimSpace(e.Degree)
	var sub string
	switch {
	case e.GPA == 0:
		sub = degree
	case degree == "":
		sub = "GPA: " + formatGPA(e.GPA)
	default:
		sub = degree + " (GPA: " + formatGPA(e.GPA) + ")"
	}

	return Entry{
		Heading:      Text(e.University),
		HeadingRight: yearRange(e.StartYear, e.GraduationYear),
		Sub:          Text(sub),
		Bullets:      Bullets(e.Description),
	}
}

func projectEntry(p types.Project) Entry {
	var link Fragment
	if strings.TrimSpace(p.ProjectLink) != "" {
		link = Link(withScheme(p.ProjectLink), "Project URL")
	}
	return Entry{
		Heading:      Text(p.ProjectName),
		HeadingRight: link,
		Sub:          Text(p.ProjectTech),
		Bullets:      Bullets(p.ProjectDesc),
	}
}

func withScheme(url string) string {
	url = strings.TrimSpace(url)
	if strings.Contains(url, "://") || strings.HasPrefix(url, "mailto:") {
		return url
	}
	return "https://" + url
}

// formatGPA keeps at least one decimal so 4 renders as "4.0".
func formatGPA(gpa float64) string {
	s := strconv.FormatFloat(gpa, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func yearRange(start, end int) Fragment {
	switch {
	case start > 0 && end > 0:
		return Fragment(strconv.Itoa(start) + " -- " + strconv.Itoa(end))
	case start > 0:
		return Fragment(strconv.Itoa(start) + " -- Present")
	case end > 0:
		return Fragment(strconv.Itoa(end))
	default:
		return ""
	}
}

func skillList(skills types.Skills) Fragment {
	parts := make([]Fragment, 0, len(skills))
	for _, s := range skills {
		parts = append(parts, Text(s))
	}
	return Join(", ", parts...)
}
