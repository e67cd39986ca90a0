// Package handler exposes the record workflow over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"medgate/internal/records"
	"medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/platform/httputil"
	"medgate/pkg/requestcontext"
)

// Workflow is the slice of the records service the handler needs.
type Workflow interface {
	Request(ctx context.Context, caller, provider domain.Account, dateOfBirth, condition string, amount int64) (domain.ReportID, error)
	Fulfill(ctx context.Context, caller domain.Account, id domain.ReportID, summary string) error
	Release(ctx context.Context, caller domain.Account, id domain.ReportID) (int64, error)
	Report(ctx context.Context, id domain.ReportID) (records.MedicalReport, error)
	Patient(ctx context.Context, account domain.Account) (records.Patient, error)
}

type Handler struct {
	workflow Workflow
	logger   *slog.Logger
}

func New(workflow Workflow, logger *slog.Logger) *Handler {
	return &Handler{workflow: workflow, logger: logger}
}

// PublicRoutes mounts the read-only report lookup.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Get("/{id}", h.getReport)
}

// ProtectedRoutes mounts the workflow mutations. The router applies bearer
// authentication.
func (h *Handler) ProtectedRoutes(r chi.Router) {
	r.Post("/", h.request)
	r.Post("/{id}/fulfill", h.fulfill)
	r.Post("/{id}/release", h.release)
}

// Routes mounts every workflow endpoint without middleware. Tests use it.
func (h *Handler) Routes(r chi.Router) {
	h.PublicRoutes(r)
	h.ProtectedRoutes(r)
}

// PatientRoutes mounts the read-only patient lookup.
func (h *Handler) PatientRoutes(r chi.Router) {
	r.Get("/{account}", h.getPatient)
}

type requestRecordRequest struct {
	Provider    string `json:"provider"`
	DateOfBirth string `json:"date_of_birth"`
	Condition   string `json:"condition"`
	Amount      int64  `json:"amount"`
}

type requestRecordResponse struct {
	ID domain.ReportID `json:"id"`
}

type fulfillRequest struct {
	Summary string `json:"summary"`
}

type releaseResponse struct {
	ID     domain.ReportID `json:"id"`
	Amount int64           `json:"amount"`
}

func (h *Handler) request(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[requestRecordRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	provider, err := domain.ParseAccount(req.Provider)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	id, err := h.workflow.Request(ctx, requestcontext.Account(ctx), provider, req.DateOfBirth, req.Condition, req.Amount)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, requestRecordResponse{ID: id})
}

func (h *Handler) fulfill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.reportID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[fulfillRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.workflow.Fulfill(ctx, requestcontext.Account(ctx), id, req.Summary); err != nil {
		httputil.WriteError(w, err)
		return
	}
	report, err := h.workflow.Report(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) release(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.reportID(w, r)
	if !ok {
		return
	}
	amount, err := h.workflow.Release(ctx, requestcontext.Account(ctx), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, releaseResponse{ID: id, Amount: amount})
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reportID(w, r)
	if !ok {
		return
	}
	report, err := h.workflow.Report(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) getPatient(w http.ResponseWriter, r *http.Request) {
	account, err := domain.ParseAccount(chi.URLParam(r, "account"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	patient, err := h.workflow.Patient(r.Context(), account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, patient)
}

func (h *Handler) reportID(w http.ResponseWriter, r *http.Request) (domain.ReportID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "report id must be a positive integer"))
		return 0, false
	}
	return domain.ReportID(id), true
}
