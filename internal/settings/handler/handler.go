// Package handler exposes the runtime configuration over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medgate/pkg/domain"
	"medgate/pkg/platform/httputil"
	"medgate/pkg/requestcontext"
)

// Config is the slice of the settings service the handler needs.
type Config interface {
	SetOracle(ctx context.Context, caller domain.Account, ref string) error
	SetThreshold(ctx context.Context, caller domain.Account, value uint32) error
	OracleRef(ctx context.Context) (string, error)
	Threshold(ctx context.Context) (uint32, error)
}

type Handler struct {
	config Config
	logger *slog.Logger
}

func New(config Config, logger *slog.Logger) *Handler {
	return &Handler{config: config, logger: logger}
}

// ReadRoutes mounts the settings query.
func (h *Handler) ReadRoutes(r chi.Router) {
	r.Get("/", h.get)
}

// WriteRoutes mounts the owner-only mutations. The router applies bearer
// authentication plus the owner-key check.
func (h *Handler) WriteRoutes(r chi.Router) {
	r.Put("/oracle", h.setOracle)
	r.Put("/threshold", h.setThreshold)
}

// Routes mounts every settings endpoint without middleware. Tests use it.
func (h *Handler) Routes(r chi.Router) {
	h.ReadRoutes(r)
	h.WriteRoutes(r)
}

type setOracleRequest struct {
	Ref string `json:"ref"`
}

type setThresholdRequest struct {
	Value uint32 `json:"value"`
}

type settingsResponse struct {
	OracleRef string `json:"oracle_ref"`
	Threshold uint32 `json:"threshold"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ref, err := h.config.OracleRef(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	threshold, err := h.config.Threshold(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, settingsResponse{OracleRef: ref, Threshold: threshold})
}

func (h *Handler) setOracle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[setOracleRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.config.SetOracle(ctx, requestcontext.Account(ctx), req.Ref); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, setOracleRequest{Ref: req.Ref})
}

func (h *Handler) setThreshold(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[setThresholdRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.config.SetThreshold(ctx, requestcontext.Account(ctx), req.Value); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, setThresholdRequest{Value: req.Value})
}
