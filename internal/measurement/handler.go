// AngelaMos | 2026
// handler.go

package measurement

import (
	"context"
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/agrourbano/farmdash/internal/core"
	"github.com/agrourbano/farmdash/internal/filter"
)

const resource = "medicion"

type service interface {
	List(ctx context.Context, params ListParams) ([]Measurement, error)
	Get(ctx context.Context, id int64) (*Measurement, error)
	Create(ctx context.Context, req CreateMeasurementRequest) (*Measurement, error)
	Update(ctx context.Context, id int64, req UpdateMeasurementRequest) (*Measurement, error)
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

// RegisterRoutes mounts the measurement routes. exportLimit throttles the
// CSV download, which reads the whole filtered history.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, exportLimit func(http.Handler) http.Handler,
) {
	r.Route("/mediciones", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.With(exportLimit).Get("/export", h.Export)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *Handler) listFromQuery(w http.ResponseWriter, r *http.Request) ([]Measurement, bool) {
	crit, err := filter.Compose(r.URL.Query())
	if err != nil {
		core.WriteError(w, err, resource)
		return nil, false
	}

	items, err := h.service.List(r.Context(), ListParamsFromFilter(crit))
	if err != nil {
		core.InternalServerError(w, err)
		return nil, false
	}

	return items, true
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, ok := h.listFromQuery(w, r)
	if !ok {
		return
	}

	core.List(w, ToMeasurementResponseList(items), len(items))
}

var csvHeader = []string{
	"id_medicion", "fecha_medicion", "valor", "unidad",
	"id_sensor", "sensor_nombre", "tipo_sensor", "parcela_nombre",
}

// Export writes the filtered measurements as CSV, newest first.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	items, ok := h.listFromQuery(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="mediciones.csv"`)

	cw := csv.NewWriter(w)
	//nolint:errcheck // write errors surface through cw.Error below
	_ = cw.Write(csvHeader)

	for i := range items {
		m := &items[i]
		//nolint:errcheck // write errors surface through cw.Error below
		_ = cw.Write([]string{
			strconv.FormatInt(m.ID, 10),
			m.MeasuredAt.UTC().Format(time.RFC3339),
			strconv.FormatFloat(m.Value, 'f', -1, 64),
			m.Unit,
			strconv.FormatInt(m.SensorID, 10),
			m.SensorName,
			m.SensorType,
			m.PlotName,
		})
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.WarnContext(r.Context(), "csv export interrupted",
			"rows", len(items),
			"error", err,
		)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	m, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	core.OK(w, ToMeasurementResponse(m))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMeasurementRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	m, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	core.Created(w, ToMeasurementResponse(m))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := core.IDParam(r, "id")
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	var req UpdateMeasurementRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	m, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		core.WriteError(w, err, resource)
		return
	}

	core.OK(w, ToMeasurementResponse(m))
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
