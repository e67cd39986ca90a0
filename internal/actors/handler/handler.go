// Package handler exposes the actor registries over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medgate/internal/actors"
	"medgate/pkg/domain"
	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/platform/httputil"
	"medgate/pkg/requestcontext"
)

// Registry is the slice of the actors service the handler needs.
type Registry interface {
	AddDoctor(ctx context.Context, caller domain.Account, doctor actors.Doctor) error
	RemoveDoctor(ctx context.Context, caller, account domain.Account) error
	AddAdmin(ctx context.Context, caller, account domain.Account) error
	RemoveAdmin(ctx context.Context, caller, account domain.Account) error
	ListDoctors(ctx context.Context) ([]domain.Account, error)
	ListAdmins(ctx context.Context) ([]domain.Account, error)
	Doctor(ctx context.Context, account domain.Account) (actors.Doctor, error)
}

type Handler struct {
	registry Registry
	logger   *slog.Logger
}

func New(registry Registry, logger *slog.Logger) *Handler {
	return &Handler{registry: registry, logger: logger}
}

// PublicRoutes mounts the read-only registry endpoints.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Get("/doctors", h.listDoctors)
	r.Get("/doctors/{account}", h.getDoctor)
	r.Get("/admins", h.listAdmins)
}

// DoctorRoutes mounts the doctor-registry mutations. The router applies
// bearer authentication.
func (h *Handler) DoctorRoutes(r chi.Router) {
	r.Post("/doctors", h.addDoctor)
	r.Delete("/doctors/{account}", h.removeDoctor)
}

// AdminRoutes mounts the admin-registry mutations. The router additionally
// applies the owner-key check.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Post("/admins", h.addAdmin)
	r.Delete("/admins/{account}", h.removeAdmin)
}

// Routes mounts every registry endpoint without middleware. Tests use it.
func (h *Handler) Routes(r chi.Router) {
	h.PublicRoutes(r)
	h.DoctorRoutes(r)
	h.AdminRoutes(r)
}

type addDoctorRequest struct {
	Account         string `json:"account"`
	Specialty       string `json:"specialty"`
	PricePerSession int64  `json:"price_per_session"`
	Availability    string `json:"availability"`
	RatingLabel     string `json:"rating_label"`
}

type addAdminRequest struct {
	Account string `json:"account"`
}

type listResponse struct {
	Accounts []domain.Account `json:"accounts"`
}

func (h *Handler) addDoctor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[addDoctorRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	account, err := domain.ParseAccount(req.Account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	doctor := actors.Doctor{
		Account:         account,
		Specialty:       req.Specialty,
		PricePerSession: req.PricePerSession,
		Availability:    req.Availability,
		RatingLabel:     req.RatingLabel,
	}
	if err := h.registry.AddDoctor(ctx, requestcontext.Account(ctx), doctor); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, doctor)
}

func (h *Handler) getDoctor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, err := domain.ParseAccount(chi.URLParam(r, "account"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	doctor, err := h.registry.Doctor(ctx, account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doctor)
}

func (h *Handler) removeDoctor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, err := domain.ParseAccount(chi.URLParam(r, "account"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.registry.RemoveDoctor(ctx, requestcontext.Account(ctx), account); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listDoctors(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.registry.ListDoctors)
}

func (h *Handler) addAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[addAdminRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	account, err := domain.ParseAccount(req.Account)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.registry.AddAdmin(ctx, requestcontext.Account(ctx), account); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, addAdminRequest{Account: account.String()})
}

func (h *Handler) removeAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account, err := domain.ParseAccount(chi.URLParam(r, "account"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.registry.RemoveAdmin(ctx, requestcontext.Account(ctx), account); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeList(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]domain.Account, error)) {
	accounts, err := list(r.Context())
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "listing failed"))
		return
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Accounts: accounts})
}

func (h *Handler) listAdmins(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.registry.ListAdmins)
}
