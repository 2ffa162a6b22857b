// AngelaMos | 2026
// handler.go

package alert

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/agrourbano/farmdash/internal/core"
	"github.com/agrourbano/farmdash/internal/filter"
)

const resource = "alerta"

type service interface {
	List(ctx context.Context, params ListParams) ([]Alert, error)
	Get(ctx context.Context, id int64) (*Alert, error)
	Create(ctx context.Context, req CreateAlertRequest) (*Alert, error)
	Update(ctx context.Context, id int64, req UpdateAlertRequest) (*Alert, error)
	Resolve(ctx context.Context, id int64) (*Alert, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	service   service
	validator *validator.Validate
}

func NewHandler(svc service) *Handler {
	return &Handler{
		service:   svc,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/alertas", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Post("/{id}/resolve", h.Resolve)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	crit, err := filter.Compose(r.URL.Query())
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	params := ListParamsFromFilter(crit)
	if err := h.validator.Struct(params); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	alerts, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.List(w, ToAlertResponseList(alerts), len(alerts))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	alert, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	core.OK(w, ToAlertResponse(alert))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAlertRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	alert, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	core.Created(w, ToAlertResponse(alert))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	var req UpdateAlertRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	alert, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	core.OK(w, ToAlertResponse(alert))
}

// Resolve backs the dashboard's resolve action.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	alert, err := h.service.Resolve(r.Context(), id)
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	core.OK(w, ToAlertResponse(alert))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		core.WriteError(w, err, resource)
		return
	}

	core.NoContent(w)
}
