// Package types provides type definitions for structured data used throughout the resume-assistant system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strings"
)

// ResumeRecord is the structured resume submitted for rendering.
// Collection order is presentation order.
type ResumeRecord struct {
	Personal       PersonalDetails  `json:"personal_details"`
	Education      []Education      `json:"education" validate:"dive"`
	WorkExperience []WorkExperience `json:"work_experience" validate:"dive"`
	Projects       []Project        `json:"projects" validate:"dive"`
	Skills         Skills           `json:"skills"`
}

// PersonalDetails holds the header/contact fields. Every field may be empty.
type PersonalDetails struct {
	FirstName string `json:"first_name" validate:"max=200"`
	LastName  string `json:"last_name" validate:"max=200"`
	Email     string `json:"email" validate:"omitempty,email,max=320"`
	Phone     string `json:"phone" validate:"max=64"`
	LinkedIn  string `json:"linkedin" validate:"max=512"`
	GitHub    string `json:"github" validate:"max=512"`
}

// FullName joins first and last name, skipping empty parts.
func (p PersonalDetails) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// Education is one education entry. Description holds one bullet per line.
type Education struct {
	University     string  `json:"university" validate:"max=500"`
	Degree         string  `json:"degree" validate:"max=500"`
	StartYear      int     `json:"start_year" validate:"min=0,max=9999"`
	GraduationYear int     `json:"graduation_year" validate:"min=0,max=9999"`
	GPA            float64 `json:"gpa" validate:"min=0,max=100"`
	Description    string  `json:"description" validate:"max=20000"`
}

// WorkExperience is one job entry. WorkDesc holds one bullet per line.
type WorkExperience struct {
	Company   string `json:"company" validate:"max=500"`
	Location  string `json:"location" validate:"max=500"`
	JobTitle  string `json:"job_title" validate:"max=500"`
	StartYear int    `json:"start_year" validate:"min=0,max=9999"`
	EndYear   int    `json:"end_year" validate:"min=0,max=9999"`
	WorkDesc  string `json:"work_desc" validate:"max=20000"`
}

// Project is one project entry. ProjectDesc holds one bullet per line.
type Project struct {
	ProjectName string `json:"project_name" validate:"max=500"`
	ProjectTech string `json:"project_tech" validate:"max=1000"`
	ProjectLink string `json:"project_link" validate:"max=2048"`
	ProjectDesc string `json:"project_desc" validate:"max=20000"`
}

// Skills is a flat list of skill names. Uniqueness is not enforced.
type Skills []string

// UnmarshalJSON accepts both a plain list and the legacy {"skills": [...]} wrapper.
func (s *Skills) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "{") {
		var wrapped struct {
			Skills []string `json:"skills"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return err
		}
		*s = wrapped.Skills
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = list
	return nil
}

// Clone returns a deep copy of the record.
func (r *ResumeRecord) Clone() *ResumeRecord {
	if r == nil {
		return nil
	}
	out := &ResumeRecord{Personal: r.Personal}
	if r.Education != nil {
		out.Education = append([]Education(nil), r.Education...)
	}
	if r.WorkExperience != nil {
		out.WorkExperience = append([]WorkExperience(nil), r.WorkExperience...)
	}
	if r.Projects != nil {
		out.Projects = append([]Project(nil), r.Projects...)
	}
	if r.Skills != nil {
		out.Skills = append(Skills(nil), r.Skills...)
	}
	return out
}

// SplitLines splits a multi-line free-text field into bullet lines.
// Blank and whitespace-only lines are dropped; surrounding whitespace is trimmed.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
