// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/trialworks/lemonaid/internal/adapters/repository"
	"github.com/trialworks/lemonaid/internal/domain/dedupe"
	"github.com/trialworks/lemonaid/internal/domain/fees"
	"github.com/trialworks/lemonaid/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	CaseDependencies
	EntryDependencies
	DocumentDependencies
	RepairDependencies
	ScheduleDependencies
	RosterDependencies
	FeeDependencies
	MotionDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	casesHandler    *CasesHandler
	entriesHandler  *EntriesHandler
	docsHandler     *DocumentsHandler
	repairsHandler  *RepairsHandler
	scheduleHandler *ScheduleHandler
	rosterHandler   *RosterHandler
	feesHandler     *FeesHandler
	motionHandler   *MotionHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxListLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		casesHandler:    NewCasesHandler(deps, maxListLimit),
		entriesHandler:  NewEntriesHandler(deps),
		docsHandler:     NewDocumentsHandler(deps),
		repairsHandler:  NewRepairsHandler(deps),
		scheduleHandler: NewScheduleHandler(deps),
		rosterHandler:   NewRosterHandler(deps),
		feesHandler:     NewFeesHandler(deps),
		motionHandler:   NewMotionHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /cases", MetricsMiddleware(s.casesHandler.HandleCreateCase, "cases"))
	mux.HandleFunc("GET /cases", MetricsMiddleware(s.casesHandler.HandleListCases, "cases"))
	mux.HandleFunc("GET /cases/{id}", MetricsMiddleware(s.casesHandler.HandleGetCase, "case"))
	mux.HandleFunc("PUT /cases/{id}", MetricsMiddleware(s.casesHandler.HandleUpdateCase, "case"))
	mux.HandleFunc("DELETE /cases/{id}", MetricsMiddleware(s.casesHandler.HandleDeleteCase, "case"))

	mux.HandleFunc("POST /cases/{id}/entries", MetricsMiddleware(s.entriesHandler.HandleAddEntries, "entries"))
	mux.HandleFunc("GET /cases/{id}/entries", MetricsMiddleware(s.entriesHandler.HandleListEntries, "entries"))

	mux.HandleFunc("POST /cases/{id}/documents", MetricsMiddleware(s.docsHandler.HandleUploadDocument, "documents"))
	mux.HandleFunc("GET /cases/{id}/documents", MetricsMiddleware(s.docsHandler.HandleListDocuments, "documents"))

	mux.HandleFunc("GET /cases/{id}/repairs", MetricsMiddleware(s.repairsHandler.HandleListRepairs, "repairs"))

	mux.HandleFunc("GET /rate-schedule", MetricsMiddleware(s.scheduleHandler.HandleGetSchedule, "rate_schedule"))
	mux.HandleFunc("PUT /rate-schedule", MetricsMiddleware(s.scheduleHandler.HandlePutSchedule, "rate_schedule"))

	mux.HandleFunc("GET /attorneys", MetricsMiddleware(s.rosterHandler.HandleGetRoster, "attorneys"))
	mux.HandleFunc("PUT /attorneys", MetricsMiddleware(s.rosterHandler.HandlePutRoster, "attorneys"))

	mux.HandleFunc("GET /cases/{id}/fees", MetricsMiddleware(s.feesHandler.HandleGetFees, "fees"))
	mux.HandleFunc("GET /cases/{id}/motion", MetricsMiddleware(s.motionHandler.HandleGetMotion, "motion"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// NewKind tags op onto a sentinel kind.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags op and a sentinel kind onto an underlying error.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// Wrap tags op onto an underlying error.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// writeDomainError maps store and calculator errors onto HTTP statuses.
// Calculator errors are 422: the stored data needs correction before a
// document can be generated.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	case errors.Is(err, fees.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, "invalid_input", Wrap(op, err))
	case errors.Is(err, fees.ErrIncompleteSchedule):
		writeError(w, http.StatusUnprocessableEntity, "incomplete_schedule", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// caseID pulls the path parameter shared by all case-scoped routes.
func caseID(r *http.Request) string {
	return r.PathValue("id")
}

// scheduleRequest mirrors the stored benchmark table. Pointer fields let a
// missing tier stay missing instead of becoming a zero rate.
type scheduleRequest struct {
	Tier1to3Rate   *float64 `json:"tier_1_3_rate"`
	Tier4to7Rate   *float64 `json:"tier_4_7_rate"`
	Tier8to10Rate  *float64 `json:"tier_8_10_rate"`
	Tier11to19Rate *float64 `json:"tier_11_19_rate"`
	Tier20PlusRate *float64 `json:"tier_20plus_rate"`
	ParalegalRate  *float64 `json:"paralegal_rate"`
}

func (s scheduleRequest) toModel() model.RateSchedule {
	return model.RateSchedule{
		Tier1to3Rate:   s.Tier1to3Rate,
		Tier4to7Rate:   s.Tier4to7Rate,
		Tier8to10Rate:  s.Tier8to10Rate,
		Tier11to19Rate: s.Tier11to19Rate,
		Tier20PlusRate: s.Tier20PlusRate,
		ParalegalRate:  s.ParalegalRate,
	}
}

func scheduleFromModel(m model.RateSchedule) scheduleRequest {
	return scheduleRequest{
		Tier1to3Rate:   m.Tier1to3Rate,
		Tier4to7Rate:   m.Tier4to7Rate,
		Tier8to10Rate:  m.Tier8to10Rate,
		Tier11to19Rate: m.Tier11to19Rate,
		Tier20PlusRate: m.Tier20PlusRate,
		ParalegalRate:  m.ParalegalRate,
	}
}
