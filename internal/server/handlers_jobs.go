package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-assistant/internal/types"
)

// handleListJobs lists the user's bookmarks.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.jobs.List(r.Context(), user)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": list, "count": len(list)})
}

// handleCreateJob bookmarks a job.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.CreateJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	job, err := s.jobs.Create(r.Context(), user, &req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, job)
}

// userAndJob parses the {id} and {job_id} path segments.
func userAndJob(r *http.Request) (string, uuid.UUID, error) {
	user, err := userID(r)
	if err != nil {
		return "", uuid.Nil, err
	}
	id, err := jobID(r)
	if err != nil {
		return "", uuid.Nil, err
	}
	return user, id, nil
}

// handleGetJob returns one bookmark.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	user, id, err := userAndJob(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	job, err := s.jobs.Get(r.Context(), user, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleDeleteJob removes a bookmark.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	user, id, err := userAndJob(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.jobs.Delete(r.Context(), user, id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFetchJob downloads the job posting and stores its summaries.
func (s *Server) handleFetchJob(w http.ResponseWriter, r *http.Request) {
	user, id, err := userAndJob(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	job, err := s.jobs.FetchDetails(r.Context(), user, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleGenerateInterviewPrep generates and stores interview preparation for a job.
func (s *Server) handleGenerateInterviewPrep(w http.ResponseWriter, r *http.Request) {
	user, id, err := userAndJob(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	prep, err := s.jobs.GenerateInterviewPrep(r.Context(), user, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, prep)
}

// handleGetInterviewPrep returns stored interview preparation.
func (s *Server) handleGetInterviewPrep(w http.ResponseWriter, r *http.Request) {
	user, id, err := userAndJob(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	prep, err := s.jobs.InterviewPrep(r.Context(), user, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, prep)
}

// handleLeetCodeHint explains how to approach a practice problem.
func (s *Server) handleLeetCodeHint(w http.ResponseWriter, r *http.Request) {
	var q types.LeetCodeQuestion
	if err := decodeJSON(w, r, &q); err != nil {
		s.fail(w, r, err)
		return
	}
	hint, err := s.jobs.LeetCodeHint(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"question": q.Question, "url": q.URL, "hint": hint})
}
