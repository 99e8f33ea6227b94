// Package store persists resumes, job bookmarks and interview preparation.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jonathan/resume-assistant/internal/types"
)

var (
	// ErrNotFound is returned when a record does not exist for the user.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a job with the same name already exists for the user.
	ErrConflict = errors.New("already exists")
)

// Store is the persistence collaborator used by the server and job services.
type Store interface {
	GetResume(ctx context.Context, userID string) (*types.ResumeRecord, error)
	PutResume(ctx context.Context, userID string, rec *types.ResumeRecord) error

	CreateJob(ctx context.Context, job *types.Job) error
	ListJobs(ctx context.Context, userID string) ([]types.Job, error)
	GetJob(ctx context.Context, userID string, id uuid.UUID) (*types.Job, error)
	UpdateJobDetails(ctx context.Context, userID string, id uuid.UUID, description, requirements string) error
	DeleteJob(ctx context.Context, userID string, id uuid.UUID) error

	PutInterviewPrep(ctx context.Context, prep *types.InterviewPrep) error
	GetInterviewPrep(ctx context.Context, userID string, jobID uuid.UUID) (*types.InterviewPrep, error)

	GetLeetCodeHint(ctx context.Context, url string) (string, error)
	PutLeetCodeHint(ctx context.Context, url, question, hint string) error

	Ping(ctx context.Context) error
	Close()
}
