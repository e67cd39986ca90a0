// Package handler exposes the advisory admission probe over HTTP.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medgate/internal/gate"
	"medgate/pkg/domain"
	"medgate/pkg/platform/httputil"
)

// Checker is the gate slice the probe needs.
type Checker interface {
	Check(ctx context.Context, account domain.Account) error
}

type Handler struct {
	checker Checker
}

func New(checker Checker) *Handler {
	return &Handler{checker: checker}
}

// Routes mounts the probe endpoint.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{account}", h.probe)
}

type probeResponse struct {
	Account  domain.Account `json:"account"`
	Admitted bool           `json:"admitted"`
	Reason   string         `json:"reason,omitempty"`
}

// probe is advisory: denials come back as 200 with admitted=false, matching
// the boolean form of the check. Oracle failures still surface as errors so
// callers can tell outage from denial.
func (h *Handler) probe(w http.ResponseWriter, r *http.Request) {
	account, err := domain.ParseAccount(chi.URLParam(r, "account"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	err = h.checker.Check(r.Context(), account)
	if err == nil {
		httputil.WriteJSON(w, http.StatusOK, probeResponse{Account: account, Admitted: true})
		return
	}
	if denial, ok := gate.Denied(err); ok {
		httputil.WriteJSON(w, http.StatusOK, probeResponse{
			Account:  account,
			Admitted: false,
			Reason:   string(denial.Reason),
		})
		return
	}
	httputil.WriteError(w, err)
}
