// AngelaMos | 2026
// handler.go

package dashboard

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agrourbano/farmdash/internal/alert"
	"github.com/agrourbano/farmdash/internal/core"
)

type service interface {
	Summary(ctx context.Context) (*Summary, error)
	RecentAlerts(ctx context.Context) ([]alert.Alert, error)
	SensorStatus(ctx context.Context) (map[string]TypeStatus, error)
}

type Handler struct {
	service service
}

func NewHandler(svc service) *Handler {
	return &Handler{service: svc}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/summary", h.Summary)
		r.Get("/recent-alerts", h.RecentAlerts)
		r.Get("/sensor-status", h.SensorStatus)
	})
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.service.Summary(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, sum)
}

func (h *Handler) RecentAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.service.RecentAlerts(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.List(w, alert.ToAlertResponseList(alerts), len(alerts))
}

func (h *Handler) SensorStatus(w http.ResponseWriter, r *http.Request) {
	byType, err := h.service.SensorStatus(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, byType)
}
