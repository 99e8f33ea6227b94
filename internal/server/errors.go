package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jonathan/resume-assistant/internal/fetch"
	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/rendering"
	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/tailoring"
	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/jonathan/resume-assistant/internal/typeset"
)

// Error codes returned in the "code" field of error responses.
const (
	CodeInvalidResume  = "invalid_resume"
	CodeInvalidRequest = "invalid_request"
	CodeAIStepFailed   = "ai_step_failed"
	CodeAIUnavailable  = "ai_not_configured"
	CodeTypesetFailed  = "typeset_failed"
	CodeFetchFailed    = "fetch_failed"
	CodeNotFound       = "not_found"
	CodeConflict       = "conflict"
	CodeInternal       = "internal_error"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error     string             `json:"error"`
	Code      string             `json:"code"`
	Fields    []types.FieldError `json:"fields,omitempty"`
	Retryable bool               `json:"retryable,omitempty"`
}

// classify maps an error to its HTTP status and response body. invalidCode is
// used for validation failures.
func classify(err error, invalidCode string) (int, ErrorResponse) {
	var (
		vErr      *types.ValidationError
		tailorErr *tailoring.TailorError
		llmErr    *llm.Error
		renderErr *typeset.RenderError
		tmplErr   *rendering.TemplateError
		fetchErr  *fetch.Error
	)

	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, ErrorResponse{Error: vErr.Error(), Code: invalidCode, Fields: vErr.Fields}
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "not found", Code: CodeNotFound}
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: CodeConflict}
	case errors.Is(err, llm.ErrNotConfigured):
		return http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Code: CodeAIUnavailable}
	case errors.As(err, &tailorErr), errors.As(err, &llmErr):
		return http.StatusBadGateway, ErrorResponse{Error: err.Error(), Code: CodeAIStepFailed, Retryable: true}
	case errors.As(err, &renderErr):
		return http.StatusInternalServerError, ErrorResponse{Error: renderErr.Message, Code: CodeTypesetFailed, Retryable: renderErr.Timeout}
	case errors.As(err, &tmplErr):
		return http.StatusInternalServerError, ErrorResponse{Error: tmplErr.Message, Code: CodeTypesetFailed}
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway, ErrorResponse{Error: fetchErr.Error(), Code: CodeFetchFailed, Retryable: true}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal}
	}
}

// fail writes err as a JSON error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.writeError(w, r, err, CodeInvalidRequest)
}

// failDocument writes err from a document generation request.
func (s *Server) failDocument(w http.ResponseWriter, r *http.Request, err error) {
	s.writeError(w, r, err, CodeInvalidResume)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, invalidCode string) {
	status, body := classify(err, invalidCode)
	if status >= http.StatusInternalServerError {
		attrs := []any{
			slog.String("path", r.URL.Path),
			slog.String("code", body.Code),
			slog.Any("error", err),
		}
		var renderErr *typeset.RenderError
		if errors.As(err, &renderErr) && renderErr.LogOutput != "" {
			attrs = append(attrs, slog.String("latex_log", renderErr.LogOutput))
		}
		s.logger.Error("request failed", attrs...)
	}
	s.jsonResponse(w, status, body)
}
