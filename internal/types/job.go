package types

import (
	"time"

	"github.com/google/uuid"
)

// Job is a bookmarked job posting belonging to a user.
type Job struct {
	ID           uuid.UUID `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	URL          string    `json:"url,omitempty"`
	Description  string    `json:"description,omitempty"`
	Requirements string    `json:"requirements,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateJobRequest is the payload for bookmarking a job.
type CreateJobRequest struct {
	Name        string `json:"name" validate:"required,max=300"`
	URL         string `json:"url,omitempty" validate:"omitempty,url,max=2048"`
	Description string `json:"description,omitempty" validate:"max=50000"`
}

// Validate validates the CreateJobRequest using the validator.
func (r *CreateJobRequest) Validate() error {
	return validateStruct(r)
}

// LeetCodeQuestion is a practice problem suggested for a job.
type LeetCodeQuestion struct {
	Question string `json:"question"`
	URL      string `json:"url"`
}

// InterviewPrep holds generated interview preparation material for a job.
type InterviewPrep struct {
	JobID     uuid.UUID          `json:"job_id"`
	UserID    string             `json:"user_id"`
	Technical string             `json:"technical_questions"`
	HR        string             `json:"hr_questions"`
	LeetCode  []LeetCodeQuestion `json:"leetcode_questions"`
	CreatedAt time.Time          `json:"created_at"`
}
