// AngelaMos | 2026
// handler.go

package user

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/agrourbano/farmdash/internal/core"
	"github.com/agrourbano/farmdash/internal/filter"
	"github.com/agrourbano/farmdash/internal/middleware"
)

const resource = "usuario"

type service interface {
	List(ctx context.Context, params ListParams) ([]User, error)
	Get(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, req CreateUserRequest) (*User, error)
	Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, requesterID, id int64) error
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

// RegisterRoutes mounts user management. Only administrators manage staff
// accounts.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/usuarios", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
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

	users, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.List(w, ToUserResponseList(users), len(users))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.WriteError(w, err, "email")
		return
	}

	core.Created(w, ToUserResponse(user))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	var req UpdateUserRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	requesterID := middleware.GetUserID(r.Context())

	if err := h.service.Delete(r.Context(), requesterID, id); err != nil {
		core.WriteError(w, err, resource)
		return
	}

	core.NoContent(w)
}
