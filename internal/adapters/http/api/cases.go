// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/trialworks/lemonaid/internal/domain/model"
)

// CaseDependencies defines the interface for case CRUD operations.
type CaseDependencies interface {
	CreateCase(ctx context.Context, c model.Case) (model.Case, error)
	GetCase(ctx context.Context, id string) (model.Case, error)
	ListCases(ctx context.Context, limit int) ([]model.Case, error)
	UpdateCase(ctx context.Context, c model.Case) (model.Case, error)
	DeleteCase(ctx context.Context, id string) error
}

// CasesHandler handles case CRUD requests.
type CasesHandler struct {
	deps     CaseDependencies
	maxLimit int
}

// NewCasesHandler creates a new cases handler.
func NewCasesHandler(deps CaseDependencies, maxLimit int) *CasesHandler {
	return &CasesHandler{deps: deps, maxLimit: maxLimit}
}

// caseRequest mirrors the wire schema for case writes.
type caseRequest struct {
	ClientName   string `json:"client_name"`
	VehicleYear  int    `json:"vehicle_year"`
	VehicleMake  string `json:"vehicle_make"`
	VehicleModel string `json:"vehicle_model"`
	VIN          string `json:"vin"`
	Status       string `json:"status"`
}

func (c caseRequest) validate() error {
	switch {
	case strings.TrimSpace(c.ClientName) == "":
		return errors.New("missing client_name")
	case strings.TrimSpace(c.VIN) == "":
		return errors.New("missing vin")
	case c.VehicleYear < 1900:
		return errors.New("invalid vehicle_year")
	}
	switch model.CaseStatus(c.Status) {
	case "", model.CaseOpen, model.CaseFiled, model.CaseSettled, model.CaseClosed:
		return nil
	default:
		return errors.New("invalid status")
	}
}

type caseResponse struct {
	ID           string `json:"id"`
	ClientName   string `json:"client_name"`
	VehicleYear  int    `json:"vehicle_year"`
	VehicleMake  string `json:"vehicle_make"`
	VehicleModel string `json:"vehicle_model"`
	VIN          string `json:"vin"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func caseToResponse(c model.Case) caseResponse {
	return caseResponse{
		ID:           c.ID,
		ClientName:   c.ClientName,
		VehicleYear:  c.VehicleYear,
		VehicleMake:  c.VehicleMake,
		VehicleModel: c.VehicleModel,
		VIN:          c.VIN,
		Status:       string(c.Status),
		CreatedAt:    c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    c.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// HandleCreateCase handles POST /cases requests.
func (h *CasesHandler) HandleCreateCase(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_case"
	var req caseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	created, err := h.deps.CreateCase(r.Context(), model.Case{
		ClientName:   req.ClientName,
		VehicleYear:  req.VehicleYear,
		VehicleMake:  req.VehicleMake,
		VehicleModel: req.VehicleModel,
		VIN:          req.VIN,
		Status:       model.CaseStatus(req.Status),
	})
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, caseToResponse(created))
}

// HandleListCases handles GET /cases?limit=N requests.
func (h *CasesHandler) HandleListCases(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_cases"
	limit := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	cases, err := h.deps.ListCases(r.Context(), limit)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	out := make([]caseResponse, 0, len(cases))
	for _, c := range cases {
		out = append(out, caseToResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetCase handles GET /cases/{id} requests.
func (h *CasesHandler) HandleGetCase(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_case"
	c, err := h.deps.GetCase(r.Context(), caseID(r))
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, caseToResponse(c))
}

// HandleUpdateCase handles PUT /cases/{id} requests.
func (h *CasesHandler) HandleUpdateCase(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_case"
	var req caseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	status := model.CaseStatus(req.Status)
	if status == "" {
		status = model.CaseOpen
	}
	updated, err := h.deps.UpdateCase(r.Context(), model.Case{
		ID:           caseID(r),
		ClientName:   req.ClientName,
		VehicleYear:  req.VehicleYear,
		VehicleMake:  req.VehicleMake,
		VehicleModel: req.VehicleModel,
		VIN:          req.VIN,
		Status:       status,
	})
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, caseToResponse(updated))
}

// HandleDeleteCase handles DELETE /cases/{id} requests.
func (h *CasesHandler) HandleDeleteCase(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_case"
	if err := h.deps.DeleteCase(r.Context(), caseID(r)); err != nil {
		writeDomainError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
