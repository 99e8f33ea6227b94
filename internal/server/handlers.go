package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-assistant/internal/schemas"
	"github.com/jonathan/resume-assistant/internal/types"
)

// MaxBodyBytes limits JSON request bodies.
const MaxBodyBytes = 1 << 20

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if err := s.store.Ping(r.Context()); err != nil {
		status["status"] = "degraded"
		status["store"] = err.Error()
		s.jsonResponse(w, http.StatusServiceUnavailable, status)
		return
	}
	s.jsonResponse(w, http.StatusOK, status)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", slog.Any("error", err))
	}
}

// readBody reads a size-limited request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, types.NewValidationError("body", fmt.Sprintf("must be at most %d bytes", MaxBodyBytes))
		}
		return nil, types.NewValidationError("body", "could not be read")
	}
	return data, nil
}

// decodeJSON decodes a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	data, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &types.ValidationError{
			Fields: []types.FieldError{{Field: "body", Message: "invalid JSON: " + err.Error()}},
			Cause:  err,
		}
	}
	return nil
}

// parseResume checks a raw resume document against the schema and decodes it.
func parseResume(raw []byte) (*types.ResumeRecord, error) {
	return schemas.DecodeResume(raw)
}

// userID returns the {id} path segment.
func userID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" || len(id) > 128 {
		return "", types.NewValidationError("id", "must be between 1 and 128 characters")
	}
	return id, nil
}

// jobID returns the {job_id} path segment as a UUID.
func jobID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("job_id"))
	if err != nil {
		return uuid.Nil, types.NewValidationError("job_id", "must be a valid UUID")
	}
	return id, nil
}
