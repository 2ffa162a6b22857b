// AngelaMos | 2026
// repository.go

package alert

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agrourbano/farmdash/internal/core"
	"github.com/agrourbano/farmdash/internal/enrich"
	"github.com/agrourbano/farmdash/internal/filter"
)

type Repository interface {
	List(ctx context.Context, params ListParams) ([]Alert, error)
	GetByID(ctx context.Context, id int64) (*Alert, error)
	Create(ctx context.Context, alert *Alert) error
	Update(ctx context.Context, id int64, patch Patch) (*Alert, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectColumns = `
	SELECT a.id_alerta, a.tipo_alerta, a.mensaje, a.nivel_urgencia,
		a.fecha_generacion, a.fecha_resolucion, a.estado, a.id_parcela, a.id_sensor,
		COALESCE(p.nombre, '` + enrich.Unassigned + `') AS parcela_nombre,
		COALESCE(s.nombre, '` + enrich.Unassigned + `') AS sensor_nombre,
		COALESCE(s.tipo_sensor, '') AS tipo_sensor
	FROM alertas a
	LEFT JOIN parcelas p ON p.id_parcela = a.id_parcela
	LEFT JOIN sensores s ON s.id_sensor = a.id_sensor`

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Alert, error) {
	var w filter.Where
	w.Search(params.Search, "a.tipo_alerta", "a.mensaje").
		Eq("a.estado", params.Status).
		Eq("a.nivel_urgencia", params.Urgency).
		Eq("a.id_parcela", params.PlotID).
		Eq("a.id_sensor", params.SensorID).
		Gte("a.fecha_generacion", params.From).
		Lte("a.fecha_generacion", params.To)

	query := fmt.Sprintf(`%s
		%s
		ORDER BY a.fecha_generacion DESC, a.id_alerta DESC`,
		selectColumns, w.Clause())

	args := w.Args()
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	alerts := []Alert{}
	if err := r.db.SelectContext(ctx, &alerts, query, args...); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}

	return alerts, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Alert, error) {
	query := selectColumns + `
		WHERE a.id_alerta = $1`

	var alert Alert
	err := r.db.GetContext(ctx, &alert, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get alert: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}

	return &alert, nil
}

func (r *repository) Create(ctx context.Context, alert *Alert) error {
	query := `
		INSERT INTO alertas (tipo_alerta, mensaje, nivel_urgencia, estado,
			fecha_resolucion, id_parcela, id_sensor)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id_alerta, fecha_generacion`

	err := r.db.QueryRowxContext(ctx, query,
		alert.Type,
		alert.Message,
		alert.Urgency,
		alert.Status,
		alert.ResolvedAt,
		alert.PlotID,
		alert.SensorID,
	).Scan(&alert.ID, &alert.GeneratedAt)
	if err != nil {
		return core.TranslateWriteError("create alert", err)
	}

	return nil
}

// Update applies patch. A stamp keeps an earlier resolution time so that
// resolving twice does not move it.
func (r *repository) Update(
	ctx context.Context,
	id int64,
	patch Patch,
) (*Alert, error) {
	var set core.Assignments
	core.Assign(&set, "tipo_alerta", patch.Type)
	core.Assign(&set, "mensaje", patch.Message)
	core.Assign(&set, "nivel_urgencia", patch.Urgency)
	core.Assign(&set, "estado", patch.Status)

	switch patch.resolution {
	case resolutionStamp:
		set.AssignExpr("fecha_resolucion", "COALESCE(fecha_resolucion, NOW())")
	case resolutionClear:
		set.AssignExpr("fecha_resolucion", "NULL")
	default:
		core.Assign(&set, "fecha_resolucion", patch.ResolvedAt)
	}

	core.Assign(&set, "id_parcela", patch.PlotID)
	core.Assign(&set, "id_sensor", patch.SensorID)

	if set.Empty() {
		return r.GetByID(ctx, id)
	}

	assignments, next := set.SQL()
	query := fmt.Sprintf(`
		UPDATE alertas
		SET %s
		WHERE id_alerta = $%d`,
		assignments, next)

	result, err := r.db.ExecContext(ctx, query, append(set.Args(), id)...)
	if err != nil {
		return nil, core.TranslateWriteError("update alert", err)
	}

	if err := core.RequireAffected(result, "update alert"); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM alertas WHERE id_alerta = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return core.TranslateDeleteError("delete alert", err)
	}

	return core.RequireAffected(result, "delete alert")
}
