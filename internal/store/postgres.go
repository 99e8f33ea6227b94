package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-assistant/internal/types"
)

const uniqueViolation = "23505"

// Postgres is a Store backed by a PostgreSQL connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Ping verifies the database is reachable.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// GetResume returns the stored resume for a user.
func (p *Postgres) GetResume(ctx context.Context, userID string) (*types.ResumeRecord, error) {
	var content []byte
	err := p.pool.QueryRow(ctx,
		`SELECT content FROM resumes WHERE user_id = $1`, userID,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	var rec types.ResumeRecord
	if err := json.Unmarshal(content, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode stored resume: %w", err)
	}
	return &rec, nil
}

// PutResume stores or replaces the resume for a user.
func (p *Postgres) PutResume(ctx context.Context, userID string, rec *types.ResumeRecord) error {
	content, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode resume: %w", err)
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO resumes (user_id, content, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET content = EXCLUDED.content, updated_at = NOW()`,
		userID, content,
	)
	if err != nil {
		return fmt.Errorf("failed to save resume: %w", err)
	}
	return nil
}

// CreateJob inserts a job bookmark, filling ID and CreatedAt.
func (p *Postgres) CreateJob(ctx context.Context, job *types.Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	err := p.pool.QueryRow(ctx,
		`INSERT INTO jobs (id, user_id, name, url, description, requirements)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		job.ID, job.UserID, job.Name, job.URL, job.Description, job.Requirements,
	).Scan(&job.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrConflict
		}
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// ListJobs returns a user's bookmarks, oldest first.
func (p *Postgres) ListJobs(ctx context.Context, userID string) ([]types.Job, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, name, url, description, requirements, created_at
		 FROM jobs WHERE user_id = $1 ORDER BY created_at, name`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]types.Job, 0)
	for rows.Next() {
		var j types.Job
		if err := rows.Scan(&j.ID, &j.UserID, &j.Name, &j.URL, &j.Description, &j.Requirements, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// GetJob returns one bookmark owned by the user.
func (p *Postgres) GetJob(ctx context.Context, userID string, id uuid.UUID) (*types.Job, error) {
	var j types.Job
	err := p.pool.QueryRow(ctx,
		`SELECT id, user_id, name, url, description, requirements, created_at
		 FROM jobs WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&j.ID, &j.UserID, &j.Name, &j.URL, &j.Description, &j.Requirements, &j.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &j, nil
}

// UpdateJobDetails stores the extracted description and requirements of a bookmark.
func (p *Postgres) UpdateJobDetails(ctx context.Context, userID string, id uuid.UUID, description, requirements string) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE jobs SET description = $3, requirements = $4 WHERE id = $1 AND user_id = $2`,
		id, userID, description, requirements,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteJob removes a bookmark and its interview preparation.
func (p *Postgres) DeleteJob(ctx context.Context, userID string, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PutInterviewPrep stores or replaces the preparation for a job.
func (p *Postgres) PutInterviewPrep(ctx context.Context, prep *types.InterviewPrep) error {
	leetcode, err := json.Marshal(prep.LeetCode)
	if err != nil {
		return fmt.Errorf("failed to encode leetcode questions: %w", err)
	}
	err = p.pool.QueryRow(ctx,
		`INSERT INTO interview_preps (job_id, user_id, technical, hr, leetcode)
		 SELECT id, user_id, $3, $4, $5 FROM jobs WHERE id = $1 AND user_id = $2
		 ON CONFLICT (job_id) DO UPDATE
		   SET technical = EXCLUDED.technical, hr = EXCLUDED.hr,
		       leetcode = EXCLUDED.leetcode, created_at = NOW()
		 RETURNING created_at`,
		prep.JobID, prep.UserID, prep.Technical, prep.HR, leetcode,
	).Scan(&prep.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to save interview prep: %w", err)
	}
	return nil
}

// GetInterviewPrep returns the stored preparation for a job.
func (p *Postgres) GetInterviewPrep(ctx context.Context, userID string, jobID uuid.UUID) (*types.InterviewPrep, error) {
	var prep types.InterviewPrep
	var leetcode []byte
	err := p.pool.QueryRow(ctx,
		`SELECT job_id, user_id, technical, hr, leetcode, created_at
		 FROM interview_preps WHERE job_id = $1 AND user_id = $2`, jobID, userID,
	).Scan(&prep.JobID, &prep.UserID, &prep.Technical, &prep.HR, &leetcode, &prep.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get interview prep: %w", err)
	}
	if err := json.Unmarshal(leetcode, &prep.LeetCode); err != nil {
		return nil, fmt.Errorf("failed to decode leetcode questions: %w", err)
	}
	return &prep, nil
}

// GetLeetCodeHint returns a cached hint for a problem URL.
func (p *Postgres) GetLeetCodeHint(ctx context.Context, url string) (string, error) {
	var hint string
	err := p.pool.QueryRow(ctx, `SELECT hint FROM leetcode_hints WHERE url = $1`, url).Scan(&hint)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get leetcode hint: %w", err)
	}
	return hint, nil
}

// PutLeetCodeHint caches a hint for a problem URL.
func (p *Postgres) PutLeetCodeHint(ctx context.Context, url, question, hint string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO leetcode_hints (url, question, hint) VALUES ($1, $2, $3)
		 ON CONFLICT (url) DO UPDATE SET question = EXCLUDED.question, hint = EXCLUDED.hint`,
		url, question, hint,
	)
	if err != nil {
		return fmt.Errorf("failed to save leetcode hint: %w", err)
	}
	return nil
}
