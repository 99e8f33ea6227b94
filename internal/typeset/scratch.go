package typeset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Scratch is a directory shared by concurrent jobs. Files are partitioned by
// job ID so no locking is needed between jobs.
type Scratch struct {
	Dir string
}

// NewScratch creates dir if needed.
func NewScratch(dir string) (*Scratch, error) {
	if dir == "" {
		return nil, fmt.Errorf("scratch directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory %s: %w", dir, err)
	}
	return &Scratch{Dir: dir}, nil
}

// Job is one generation request's slice of a scratch directory.
type Job struct {
	ID  string
	Dir string
}

// jobIDLength is the length of a job ID: a UUID in hex without dashes.
const jobIDLength = 32

// NewJob allocates a fresh job with a random 128-bit ID.
func (s *Scratch) NewJob() Job {
	return Job{
		ID:  strings.ReplaceAll(uuid.NewString(), "-", ""),
		Dir: s.Dir,
	}
}

// Path returns the scratch path for the job's file with the given extension.
func (j Job) Path(ext string) string {
	return filepath.Join(j.Dir, j.ID+"."+strings.TrimPrefix(ext, "."))
}

// Owns reports whether a file name belongs to the job: either the bare ID or
// ID followed by a dot. Other jobs' files never match.
func (j Job) Owns(name string) bool {
	return name == j.ID || strings.HasPrefix(name, j.ID+".")
}

// Cleanup removes every file the job owns. It is safe to call more than once.
func (j Job) Cleanup() error {
	if j.ID == "" {
		return nil
	}
	entries, err := os.ReadDir(j.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to list scratch directory: %w", err)
	}

	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !j.Owns(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(j.Dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// jobFile reports whether name has the shape of a job's file: a job ID,
// optionally followed by a dot and an extension.
func jobFile(name string) bool {
	id, _, _ := strings.Cut(name, ".")
	if len(id) != jobIDLength {
		return false
	}
	for _, c := range id {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

// Sweep removes job files older than maxAge, left behind by crashed processes.
// Files whose names are not job IDs are never touched. It returns the number
// of files removed.
func (s *Scratch) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list scratch directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !jobFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.Dir, entry.Name())); err != nil {
			if !os.IsNotExist(err) {
				errs = append(errs, err)
			}
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
