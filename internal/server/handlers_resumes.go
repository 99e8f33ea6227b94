package server

import (
	"log/slog"
	"net/http"
)

// handleGetResume returns the user's stored resume.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.store.GetResume(r.Context(), user)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handlePutResume stores or replaces the user's resume.
func (s *Server) handlePutResume(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		s.failDocument(w, r, err)
		return
	}
	rec, err := parseResume(body)
	if err != nil {
		s.failDocument(w, r, err)
		return
	}
	if err := s.store.PutResume(r.Context(), user, rec); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("resume saved", slog.String("user_id", user))
	s.jsonResponse(w, http.StatusOK, rec)
}
