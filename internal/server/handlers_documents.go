package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-assistant/internal/generate"
	"github.com/jonathan/resume-assistant/internal/types"
)

// DocumentRequest is the body of the tailored resume and cover letter endpoints.
type DocumentRequest struct {
	Resume         json.RawMessage `json:"resume"`
	JobDescription string          `json:"job_description"`
}

// StoredResumeRequest optionally tailors the stored resume to one of the user's jobs.
type StoredResumeRequest struct {
	JobID string `json:"job_id,omitempty"`
}

var downloadNames = map[generate.Kind]string{
	generate.KindResume:         "resume.pdf",
	generate.KindTailoredResume: "tailored_resume.pdf",
	generate.KindCoverLetter:    "cover_letter.pdf",
}

// writePDF sends a generated document as a download.
func (s *Server) writePDF(w http.ResponseWriter, doc *generate.Document) {
	name := downloadNames[doc.Kind]
	if name == "" {
		name = doc.Filename
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.PDF)))
	w.Header().Set("X-Document-ID", doc.ID)
	if len(doc.Failed) > 0 {
		locs := make([]string, len(doc.Failed))
		for i, f := range doc.Failed {
			locs[i] = fmt.Sprintf("%s[%d]", f.Section, f.Index)
		}
		w.Header().Set("X-Tailoring-Failures", strings.Join(locs, ","))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.PDF)
}

// handleResumePDF renders the resume in the request body.
func (s *Server) handleResumePDF(w http.ResponseWriter, r *http.Request) {
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
	doc, err := s.generator.GenerateResume(r.Context(), rec)
	if err != nil {
		s.failDocument(w, r, err)
		return
	}
	s.writePDF(w, doc)
}

// handleTailoredResumePDF rewrites the resume for a job description and renders it.
func (s *Server) handleTailoredResumePDF(w http.ResponseWriter, r *http.Request) {
	s.handleDocumentRequest(w, r, s.generator.GenerateTailoredResume)
}

// handleCoverLetterPDF writes a cover letter for a job description.
func (s *Server) handleCoverLetterPDF(w http.ResponseWriter, r *http.Request) {
	s.handleDocumentRequest(w, r, s.generator.GenerateCoverLetter)
}

type generateFunc func(ctx context.Context, rec *types.ResumeRecord, jobDescription string) (*generate.Document, error)

func (s *Server) handleDocumentRequest(w http.ResponseWriter, r *http.Request, gen generateFunc) {
	var req DocumentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.failDocument(w, r, err)
		return
	}
	rec, err := parseResume(req.Resume)
	if err != nil {
		s.failDocument(w, r, err)
		return
	}
	doc, err := gen(r.Context(), rec, req.JobDescription)
	if err != nil {
		s.failDocument(w, r, err)
		return
	}
	s.writePDF(w, doc)
}

// handleStoredResumePDF renders the user's stored resume, tailored to one of
// their jobs when job_id is given.
func (s *Server) handleStoredResumePDF(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req StoredResumeRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			s.fail(w, r, types.NewValidationError("body", "invalid JSON: "+err.Error()))
			return
		}
	}

	rec, err := s.store.GetResume(r.Context(), user)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if req.JobID == "" {
		doc, err := s.generator.GenerateResume(r.Context(), rec)
		if err != nil {
			s.failDocument(w, r, err)
			return
		}
		s.writePDF(w, doc)
		return
	}

	id, err := uuid.Parse(req.JobID)
	if err != nil {
		s.fail(w, r, types.NewValidationError("job_id", "must be a valid UUID"))
		return
	}
	job, err := s.jobs.Get(r.Context(), user, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.generator.GenerateTailoredResume(r.Context(), rec, jobDescription(job))
	if err != nil {
		s.failDocument(w, r, err)
		return
	}
	s.writePDF(w, doc)
}

// handleJobCoverLetter writes a cover letter for one of the user's jobs from the stored resume.
func (s *Server) handleJobCoverLetter(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id, err := jobID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	job, err := s.jobs.Get(r.Context(), user, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.store.GetResume(r.Context(), user)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.generator.GenerateCoverLetter(r.Context(), rec, jobDescription(job))
	if err != nil {
		s.failDocument(w, r, err)
		return
	}
	s.writePDF(w, doc)
}

// jobDescription is the text a stored job contributes to tailoring. Empty
// when the job has neither a description nor requirements.
func jobDescription(job *types.Job) string {
	var parts []string
	if d := strings.TrimSpace(job.Description); d != "" {
		parts = append(parts, d)
	}
	if req := strings.TrimSpace(job.Requirements); req != "" {
		parts = append(parts, "Requirements:\n"+req)
	}
	if len(parts) == 0 {
		return ""
	}
	return job.Name + "\n\n" + strings.Join(parts, "\n\n")
}
