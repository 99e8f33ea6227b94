package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-assistant/internal/fetch"
	"github.com/jonathan/resume-assistant/internal/generate"
	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/rendering"
	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/tailoring"
	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/jonathan/resume-assistant/internal/typeset"
)

func documentBody(t *testing.T, resume, jobDescription string) string {
	t.Helper()
	data, err := json.Marshal(DocumentRequest{Resume: json.RawMessage(resume), JobDescription: jobDescription})
	require.NoError(t, err)
	return string(data)
}

func TestResumePDF(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/resume/pdf", sampleResume)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="resume.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "abc123", rec.Header().Get("X-Document-ID"))
	assert.Empty(t, rec.Header().Get("X-Tailoring-Failures"))
	assert.Equal(t, "%PDF-1.4 fake", rec.Body.String())

	call := ts.generator.lastCall(t)
	assert.Equal(t, generate.KindResume, call.kind)
	assert.Equal(t, "Jane", call.record.Personal.FirstName)
	assert.Equal(t, types.Skills{"Go", "SQL"}, call.record.Skills)
}

func TestResumePDF_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"null", "null"},
		{"malformed JSON", `{"personal_details":`},
		{"wrong type", `{"education": "MIT"}`},
		{"bad email", `{"personal_details": {"email": "not-an-email"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			rec := ts.do(http.MethodPost, "/resume/pdf", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, CodeInvalidResume, decodeError(t, rec).Code)
			assert.Empty(t, ts.generator.calls)
		})
	}
}

func TestTailoredResumePDF(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/resume/tailored-pdf", documentBody(t, sampleResume, "Go backend engineer"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `attachment; filename="tailored_resume.pdf"`, rec.Header().Get("Content-Disposition"))

	call := ts.generator.lastCall(t)
	assert.Equal(t, generate.KindTailoredResume, call.kind)
	assert.Equal(t, "Go backend engineer", call.jobDescription)
}

func TestTailoredResumePDF_ReportsFailures(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.Server.generator = failingEntries{ts.generator}
	ts.handler = ts.Handler()

	rec := ts.do(http.MethodPost, "/resume/tailored-pdf", documentBody(t, sampleResume, "jd"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "work_experience[0],projects[2]", rec.Header().Get("X-Tailoring-Failures"))
}

// failingEntries reports two entries that kept their original text.
type failingEntries struct{ *fakeGenerator }

func (failingEntries) GenerateTailoredResume(context.Context, *types.ResumeRecord, string) (*generate.Document, error) {
	return &generate.Document{
		ID:   "def456",
		Kind: generate.KindTailoredResume,
		PDF:  []byte("%PDF"),
		Failed: []tailoring.Failure{
			{Section: tailoring.SectionWork, Index: 0, Error: "quota"},
			{Section: tailoring.SectionProjects, Index: 2, Error: "quota"},
		},
	}, nil
}

func TestCoverLetterPDF(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/cover-letter/pdf", documentBody(t, sampleResume, "Backend Engineer at Acme"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `attachment; filename="cover_letter.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, generate.KindCoverLetter, ts.generator.lastCall(t).kind)
}

func TestCoverLetterPDF_MissingResume(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/cover-letter/pdf", `{"job_description": "jd"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, CodeInvalidResume, resp.Code)
	require.NotEmpty(t, resp.Fields)
	assert.Equal(t, "resume", resp.Fields[0].Field)
}

func TestDocumentErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		code      string
		retryable bool
	}{
		{"validation", types.NewValidationError("job_description", "is required"), http.StatusBadRequest, CodeInvalidResume, false},
		{"tailoring", &tailoring.TailorError{Section: tailoring.SectionWork, Message: "rewrite failed", Cause: errors.New("quota")}, http.StatusBadGateway, CodeAIStepFailed, true},
		{"llm", &llm.Error{Provider: llm.ProviderAnthropic, Message: "overloaded"}, http.StatusBadGateway, CodeAIStepFailed, true},
		{"typeset", &typeset.RenderError{Message: "pdflatex failed", LogOutput: "! Undefined control sequence."}, http.StatusInternalServerError, CodeTypesetFailed, false},
		{"typeset timeout", &typeset.RenderError{Message: "pdflatex timed out", Timeout: true}, http.StatusInternalServerError, CodeTypesetFailed, true},
		{"template", &rendering.TemplateError{Message: "template execution failed"}, http.StatusInternalServerError, CodeTypesetFailed, false},
		{"model not configured", llm.NotConfigured("tailoring"), http.StatusServiceUnavailable, CodeAIUnavailable, false},
		{"wrapped", fmt.Errorf("generate: %w", &llm.Error{Message: "x"}), http.StatusBadGateway, CodeAIStepFailed, true},
		{"unknown", errors.New("disk full"), http.StatusInternalServerError, CodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			ts.generator.err = tt.err

			rec := ts.do(http.MethodPost, "/resume/tailored-pdf", documentBody(t, sampleResume, "jd"))
			assert.Equal(t, tt.status, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.retryable, resp.Retryable)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestClassify_StoreAndFetchErrors(t *testing.T) {
	status, resp := classify(store.ErrNotFound, CodeInvalidRequest)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, CodeNotFound, resp.Code)

	status, resp = classify(fmt.Errorf("job: %w", store.ErrConflict), CodeInvalidRequest)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, CodeConflict, resp.Code)

	status, resp = classify(&fetch.Error{URL: "https://example.com", Message: "status 500"}, CodeInvalidRequest)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, CodeFetchFailed, resp.Code)
	assert.True(t, resp.Retryable)

	// internal details stay out of the response
	_, resp = classify(errors.New("pq: password authentication failed"), CodeInvalidRequest)
	assert.Equal(t, "internal server error", resp.Error)
}

func TestStoredResumePDF(t *testing.T) {
	ts := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, ts.do(http.MethodPut, "/users/u1/resume", sampleResume).Code)

	rec := ts.do(http.MethodPost, "/users/u1/resume/pdf", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, generate.KindResume, ts.generator.lastCall(t).kind)
}

func TestStoredResumePDF_TailoredToJob(t *testing.T) {
	ts := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, ts.do(http.MethodPut, "/users/u1/resume", sampleResume).Code)
	job := createJob(t, ts, "u1", `{"name": "Backend at Acme", "description": "Build Go services"}`)

	rec := ts.do(http.MethodPost, "/users/u1/resume/pdf", fmt.Sprintf(`{"job_id": %q}`, job.ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	call := ts.generator.lastCall(t)
	assert.Equal(t, generate.KindTailoredResume, call.kind)
	assert.Contains(t, call.jobDescription, "Backend at Acme")
	assert.Contains(t, call.jobDescription, "Build Go services")
}

func TestStoredResumePDF_Errors(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/users/u1/resume/pdf", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.Equal(t, http.StatusOK, ts.do(http.MethodPut, "/users/u1/resume", sampleResume).Code)

	rec = ts.do(http.MethodPost, "/users/u1/resume/pdf", `{"job_id": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeInvalidRequest, decodeError(t, rec).Code)

	rec = ts.do(http.MethodPost, "/users/u1/resume/pdf", `{"job_id": "2f1d3c4e-8a7b-4c6d-9e0f-112233445566"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJobCoverLetter(t *testing.T) {
	ts := newTestServer(t, nil)
	job := createJob(t, ts, "u1", `{"name": "Backend at Acme", "description": "Build Go services"}`)
	path := "/users/u1/jobs/" + job.ID.String() + "/cover-letter"

	rec := ts.do(http.MethodPost, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "no stored resume yet")

	require.Equal(t, http.StatusOK, ts.do(http.MethodPut, "/users/u1/resume", sampleResume).Code)
	rec = ts.do(http.MethodPost, path, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	call := ts.generator.lastCall(t)
	assert.Equal(t, generate.KindCoverLetter, call.kind)
	assert.Contains(t, call.jobDescription, "Build Go services")

	// another user's job is not visible
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodPost, "/users/u2/jobs/"+job.ID.String()+"/cover-letter", "").Code)
}

func TestJobDescription(t *testing.T) {
	assert.Empty(t, jobDescription(&types.Job{Name: "Only a name"}))
	assert.Equal(t, "Dev\n\nWrite code\n\nRequirements:\nGo",
		jobDescription(&types.Job{Name: "Dev", Description: "Write code", Requirements: "Go"}))
}
