package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-assistant/internal/types"
)

// Memory is an in-process Store used when no database is configured.
type Memory struct {
	mu      sync.RWMutex
	resumes map[string]*types.ResumeRecord
	jobs    map[uuid.UUID]types.Job
	preps   map[uuid.UUID]types.InterviewPrep
	hints   map[string]string
	nowFunc func() time.Time
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		resumes: make(map[string]*types.ResumeRecord),
		jobs:    make(map[uuid.UUID]types.Job),
		preps:   make(map[uuid.UUID]types.InterviewPrep),
		hints:   make(map[string]string),
		nowFunc: time.Now,
	}
}

func (m *Memory) GetResume(_ context.Context, userID string) (*types.ResumeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.resumes[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

func (m *Memory) PutResume(_ context.Context, userID string, rec *types.ResumeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumes[userID] = rec.Clone()
	return nil
}

func (m *Memory) CreateJob(_ context.Context, job *types.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.jobs {
		if existing.UserID == job.UserID && existing.Name == job.Name {
			return ErrConflict
		}
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = m.nowFunc().UTC()
	}
	m.jobs[job.ID] = *job
	return nil
}

func (m *Memory) ListJobs(_ context.Context, userID string) ([]types.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jobs := make([]types.Job, 0)
	for _, job := range m.jobs {
		if job.UserID == userID {
			jobs = append(jobs, job)
		}
	}
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
		}
		return jobs[i].Name < jobs[j].Name
	})
	return jobs, nil
}

func (m *Memory) GetJob(_ context.Context, userID string, id uuid.UUID) (*types.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok || job.UserID != userID {
		return nil, ErrNotFound
	}
	return &job, nil
}

func (m *Memory) UpdateJobDetails(_ context.Context, userID string, id uuid.UUID, description, requirements string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok || job.UserID != userID {
		return ErrNotFound
	}
	job.Description = description
	job.Requirements = requirements
	m.jobs[id] = job
	return nil
}

func (m *Memory) DeleteJob(_ context.Context, userID string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok || job.UserID != userID {
		return ErrNotFound
	}
	delete(m.jobs, id)
	delete(m.preps, id)
	return nil
}

func (m *Memory) PutInterviewPrep(_ context.Context, prep *types.InterviewPrep) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[prep.JobID]
	if !ok || job.UserID != prep.UserID {
		return ErrNotFound
	}
	stored := *prep
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = m.nowFunc().UTC()
	}
	stored.LeetCode = append([]types.LeetCodeQuestion(nil), prep.LeetCode...)
	m.preps[prep.JobID] = stored
	return nil
}

func (m *Memory) GetInterviewPrep(_ context.Context, userID string, jobID uuid.UUID) (*types.InterviewPrep, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	prep, ok := m.preps[jobID]
	if !ok || prep.UserID != userID {
		return nil, ErrNotFound
	}
	prep.LeetCode = append([]types.LeetCodeQuestion(nil), prep.LeetCode...)
	return &prep, nil
}

func (m *Memory) GetLeetCodeHint(_ context.Context, url string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hint, ok := m.hints[url]
	if !ok {
		return "", ErrNotFound
	}
	return hint, nil
}

func (m *Memory) PutLeetCodeHint(_ context.Context, url, _ string, hint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hints[url] = hint
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() {}
