// Package http assembles the service's chi router: middleware chain,
// module handlers, health, and metrics.
package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	actorshandler "medgate/internal/actors/handler"
	gatehandler "medgate/internal/gate/handler"
	recordshandler "medgate/internal/records/handler"
	settingshandler "medgate/internal/settings/handler"
	"medgate/pkg/platform/httputil"
	"medgate/pkg/platform/middleware"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger       *slog.Logger
	Auth         *middleware.Authenticator
	OwnerKeyHash string

	Actors   *actorshandler.Handler
	Records  *recordshandler.Handler
	Settings *settingshandler.Handler
	Gate     *gatehandler.Handler
}

// NewRouter builds the full route tree. Reads are public; mutations require
// a bearer token; configuration and admin-registry changes additionally
// require the owner key.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)

	ownerKey := middleware.OwnerKey(deps.OwnerKeyHash)

	r.Get("/healthz", healthz)
	r.Method(nethttp.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/gate", deps.Gate.Routes)

	r.Route("/actors", func(r chi.Router) {
		deps.Actors.PublicRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Require)
			deps.Actors.DoctorRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Require, ownerKey)
			deps.Actors.AdminRoutes(r)
		})
	})

	r.Route("/records", func(r chi.Router) {
		deps.Records.PublicRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Require)
			deps.Records.ProtectedRoutes(r)
		})
	})
	r.Route("/patients", deps.Records.PatientRoutes)

	r.Route("/settings", func(r chi.Router) {
		deps.Settings.ReadRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Require, ownerKey)
			deps.Settings.WriteRoutes(r)
		})
	})

	return r
}

func healthz(w nethttp.ResponseWriter, _ *nethttp.Request) {
	httputil.WriteJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"})
}
