package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/trialworks/lemonaid/internal/domain/dedupe"
	"github.com/trialworks/lemonaid/internal/domain/model"
)

// DocumentDependencies defines the interface for document upload and
// extraction dispatch.
type DocumentDependencies interface {
	dedupe.Deduper

	// UploadDocument persists the document and hands it to the extraction
	// pipeline. Returns false when the pipeline cannot accept more work.
	UploadDocument(ctx context.Context, doc model.Document) (model.Document, bool, error)
	ListDocuments(ctx context.Context, caseID string) ([]model.Document, error)
}

// DocumentsHandler handles document upload and listing requests.
type DocumentsHandler struct {
	deps DocumentDependencies
}

// NewDocumentsHandler creates a new documents handler.
func NewDocumentsHandler(deps DocumentDependencies) *DocumentsHandler {
	return &DocumentsHandler{deps: deps}
}

type documentRequest struct {
	UploadID string `json:"upload_id"`
	Kind     string `json:"kind"`
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

func (d documentRequest) validate() error {
	switch model.DocumentKind(d.Kind) {
	case model.DocumentBilling, model.DocumentRepair:
	default:
		return errors.New("kind must be billing or repair")
	}
	if strings.TrimSpace(d.Text) == "" {
		return errors.New("missing text")
	}
	return nil
}

type documentResponse struct {
	ID         string `json:"id"`
	CaseID     string `json:"case_id"`
	Kind       string `json:"kind"`
	Filename   string `json:"filename,omitempty"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	UploadedAt string `json:"uploaded_at"`
	Duplicate  bool   `json:"duplicate,omitempty"`
}

func documentToResponse(d model.Document) documentResponse {
	return documentResponse{
		ID:         d.ID,
		CaseID:     d.CaseID,
		Kind:       string(d.Kind),
		Filename:   d.Filename,
		Status:     string(d.Status),
		Error:      d.Error,
		UploadedAt: d.UploadedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// HandleUploadDocument handles POST /cases/{id}/documents requests.
// Clients may supply an upload_id to make retries idempotent.
func (h *DocumentsHandler) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload_document"
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first.
	if req.UploadID != "" && h.deps.SeenAndRecord(r.Context(), req.UploadID) {
		writeJSON(w, http.StatusOK, documentResponse{
			CaseID:    caseID(r),
			Kind:      req.Kind,
			Filename:  req.Filename,
			Status:    "duplicate",
			Duplicate: true,
		})
		return
	}

	doc := model.Document{
		CaseID:   caseID(r),
		Kind:     model.DocumentKind(req.Kind),
		Filename: req.Filename,
		Text:     req.Text,
		Status:   model.DocumentPending,
	}
	created, queued, err := h.deps.UploadDocument(r.Context(), doc)
	if err != nil {
		if req.UploadID != "" {
			h.deps.Unrecord(r.Context(), req.UploadID)
		}
		writeDomainError(w, op, err)
		return
	}
	if !queued {
		// Roll back the "seen" status since enqueue failed.
		if req.UploadID != "" {
			h.deps.Unrecord(r.Context(), req.UploadID)
		}
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, documentToResponse(created))
}

// HandleListDocuments handles GET /cases/{id}/documents requests.
func (h *DocumentsHandler) HandleListDocuments(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_documents"
	docs, err := h.deps.ListDocuments(r.Context(), caseID(r))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentToResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}
