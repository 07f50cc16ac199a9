package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/persona-studio/internal/db"
	"github.com/jonathan/persona-studio/internal/export"
	"github.com/jonathan/persona-studio/internal/ingestion"
	"github.com/jonathan/persona-studio/internal/pipeline"
	"github.com/jonathan/persona-studio/internal/rendering"
	"github.com/jonathan/persona-studio/internal/types"
)

const (
	// maxRequestBytes bounds a generate request: every file at the cap plus the text fields.
	maxRequestBytes = ingestion.MaxFiles*ingestion.MaxFileSizeBytes + 1<<20
	multipartMemory = 32 << 20

	defaultListLimit = 20
	maxListLimit     = 100

	// SessionHeader lets API clients choose their session without cookies.
	SessionHeader = "X-Session-Key"
)

// GenerateRequest is the JSON body accepted by POST /personas. Field names match the form.
type GenerateRequest struct {
	CompanyName        string `json:"companyName"`
	CompanyDescription string `json:"companyDescription"`
	CompanyURL         string `json:"companyURL,omitempty"`
	MarketingGoals     string `json:"marketingGoals"`
}

func (g GenerateRequest) input(files []types.ProcessedFile) types.CompanyInput {
	return types.CompanyInput{
		Name:           g.CompanyName,
		Description:    g.CompanyDescription,
		URL:            g.CompanyURL,
		MarketingGoals: g.MarketingGoals,
		Files:          files,
	}
}

// SupersededResponse is returned with 409 when a newer submission replaced this one.
type SupersededResponse struct {
	Error        string `json:"error"`
	SubmissionID string `json:"submission_id"`
	Generation   uint64 `json:"generation"`
}

// handleForm serves the submission form.
func (s *Server) handleForm(w http.ResponseWriter, _ *http.Request) {
	s.renderForm(w, http.StatusOK, types.CompanyInput{}, "")
}

func (s *Server) renderForm(w http.ResponseWriter, status int, input types.CompanyInput, message string) {
	doc, err := rendering.RenderForm(rendering.FormData{
		Action:        "/personas",
		Input:         input,
		Error:         message,
		MaxFiles:      ingestion.MaxFiles,
		MaxFileSizeMB: ingestion.MaxFileSizeBytes >> 20,
		Accept:        strings.Join(append([]string{".md", ".txt", ".pdf", ".docx"}, types.AcceptedFileTypes...), ","),
	})
	if err != nil {
		s.logger.Error("failed to render form", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	s.htmlResponse(w, status, doc)
}

func (s *Server) htmlResponse(w http.ResponseWriter, status int, doc rendering.Document) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(doc.HTML)); err != nil {
		s.logger.Warn("failed to write HTML response", zap.Error(err))
	}
}

// parseInput reads company input from a JSON, multipart, or urlencoded body.
// Attached files are validated and preprocessed before returning.
func (s *Server) parseInput(w http.ResponseWriter, r *http.Request) (types.CompanyInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return types.CompanyInput{}, err
			}
			return types.CompanyInput{}, &ErrValidation{Message: "invalid request body: " + err.Error()}
		}
		return req.input(nil), nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return types.CompanyInput{}, err
			}
			return types.CompanyInput{}, &ErrValidation{Message: "invalid multipart body: " + err.Error()}
		}
		defer r.MultipartForm.RemoveAll() //nolint:errcheck

		req := formRequest(r)
		headers := r.MultipartForm.File["files"]
		if err := ingestion.ValidateUploadCount(len(headers)); err != nil {
			return req.input(nil), err
		}
		uploads := make([]ingestion.Upload, len(headers))
		for i, fh := range headers {
			uploads[i] = ingestion.FromMultipart(fh)
		}
		return req.input(s.preprocessor.Process(uploads)), nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return types.CompanyInput{}, &ErrValidation{Message: "invalid form body: " + err.Error()}
		}
		return formRequest(r).input(nil), nil

	default:
		return types.CompanyInput{}, &ErrValidation{Field: "Content-Type", Message: "unsupported content type " + strconv.Quote(mediaType)}
	}
}

func formRequest(r *http.Request) GenerateRequest {
	return GenerateRequest{
		CompanyName:        r.FormValue("companyName"),
		CompanyDescription: r.FormValue("companyDescription"),
		CompanyURL:         r.FormValue("companyURL"),
		MarketingGoals:     r.FormValue("marketingGoals"),
	}
}

// sessionKey returns the caller's session, issuing a cookie when there is none.
func sessionKey(w http.ResponseWriter, r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get(SessionHeader)); key != "" {
		return key
	}
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	key := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return key
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// handleGenerate runs one submission and returns its personas.
// Browser form posts are redirected to the results page instead.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	input, err := s.parseInput(w, r)
	if err == nil {
		session := sessionKey(w, r)
		var result *pipeline.Result
		result, err = s.generator.Generate(r.Context(), pipeline.Request{Input: input, SessionKey: session})
		if err == nil && result.Stale {
			s.jsonResponse(w, http.StatusConflict, SupersededResponse{
				Error:        ErrSuperseded.Error(),
				SubmissionID: result.SubmissionID.String(),
				Generation:   result.Generation,
			})
			return
		}
		if err == nil {
			if wantsHTML(r) {
				http.Redirect(w, r, fmt.Sprintf("/submissions/%s/cards", result.SubmissionID), http.StatusSeeOther)
				return
			}
			s.jsonResponse(w, http.StatusOK, result)
			return
		}
	}

	if wantsHTML(r) {
		status := HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("generation failed", zap.Error(err))
		}
		s.renderForm(w, status, input, PublicMessage(err))
		return
	}
	s.failResponse(w, r, err)
}

// handleGenerateStream runs one submission, streaming progress as Server-Sent Events.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	input, err := s.parseInput(w, r)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	session := sessionKey(w, r)

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := s.generator.Generate(r.Context(), pipeline.Request{
		Input:      input,
		SessionKey: session,
		OnProgress: func(event pipeline.ProgressEvent) {
			if werr := sse.WriteEvent(EventProgress, event); werr != nil {
				s.logger.Debug("failed to write progress event", zap.Error(werr))
			}
		},
	})
	if err != nil {
		status := HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("generation failed", zap.Error(err))
		}
		sse.WriteError(status, PublicMessage(err))
		return
	}

	id := result.SubmissionID.String()
	if result.Stale {
		sse.WriteEvent(EventSuperseded, SupersededResponse{ //nolint:errcheck
			Error:        ErrSuperseded.Error(),
			SubmissionID: id,
			Generation:   result.Generation,
		})
		sse.WriteComplete(id, types.StatusStale)
		return
	}

	sse.WriteEvent(EventResult, result) //nolint:errcheck
	status := types.StatusCompleted
	if len(result.Personas) == 0 {
		status = types.StatusEmpty
	}
	sse.WriteComplete(id, status)
}

// loadSubmission resolves the {id} path value to a stored submission.
func (s *Server) loadSubmission(r *http.Request) (*types.Submission, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, &ErrValidation{Field: "id", Message: "invalid submission ID format"}
	}
	sub, err := s.store.GetSubmission(r.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	return sub, nil
}

// handleGetSubmission returns a stored submission as JSON.
func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := s.loadSubmission(r)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sub)
}

// handleListSubmissions lists recent submissions when the store supports it.
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	lister, ok := s.store.(SubmissionLister)
	if !ok {
		s.errorResponse(w, http.StatusNotImplemented, "listing submissions requires a database")
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.failResponse(w, r, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = min(n, maxListLimit)
	}

	summaries, err := lister.ListSubmissions(r.Context(), limit)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []db.SubmissionSummary{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"submissions": summaries,
		"count":       len(summaries),
	})
}

// handleDeleteSubmission removes a submission and its personas.
func (s *Server) handleDeleteSubmission(w http.ResponseWriter, r *http.Request) {
	deleter, ok := s.store.(SubmissionDeleter)
	if !ok {
		s.errorResponse(w, http.StatusNotImplemented, "deleting submissions requires a database")
		return
	}
	sub, err := s.loadSubmission(r)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	if err := deleter.DeleteSubmission(r.Context(), sub.ID); err != nil {
		s.failResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCards renders the persona cards of a submission.
func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	sub, err := s.loadSubmission(r)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	exportBase := ""
	if s.exporter != nil {
		exportBase = fmt.Sprintf("/submissions/%s/personas", sub.ID)
	}
	doc, err := rendering.RenderResults(sub, exportBase)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	s.htmlResponse(w, http.StatusOK, doc)
}

// handleExport renders one persona card to PDF and sends it as an attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}
	sub, err := s.loadSubmission(r)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}
	persona := sub.FindPersona(r.PathValue("persona_id"))
	if persona == nil {
		s.failResponse(w, r, fmt.Errorf("persona %q: %w", r.PathValue("persona_id"), export.ErrTargetMissing))
		return
	}

	var buf bytes.Buffer
	fileName, err := s.exporter.ExportPersona(r.Context(), *persona, &buf)
	if err != nil {
		s.failResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn("failed to write export", zap.Error(err))
	}
}
