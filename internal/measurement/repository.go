// AngelaMos | 2026
// repository.go

package measurement

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
	List(ctx context.Context, params ListParams) ([]Measurement, error)
	GetByID(ctx context.Context, id int64) (*Measurement, error)
	Create(ctx context.Context, m *Measurement) error
	Update(ctx context.Context, id int64, patch Patch) (*Measurement, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// The plot is reached through the sensor, so a measurement whose sensor
// is missing also shows an unassigned plot.
const selectColumns = `
	SELECT m.id_medicion, m.valor, m.unidad, m.fecha_medicion, m.id_sensor,
		COALESCE(s.nombre, '` + enrich.Unassigned + `') AS sensor_nombre,
		COALESCE(s.tipo_sensor, '') AS tipo_sensor,
		COALESCE(p.nombre, '` + enrich.Unassigned + `') AS parcela_nombre
	FROM mediciones m
	LEFT JOIN sensores s ON s.id_sensor = m.id_sensor
	LEFT JOIN parcelas p ON p.id_parcela = s.id_parcela`

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Measurement, error) {
	var w filter.Where
	w.Eq("m.id_sensor", params.SensorID).
		Eq("s.id_parcela", params.PlotID).
		Gte("m.fecha_medicion", params.From).
		Lte("m.fecha_medicion", params.To)

	query := fmt.Sprintf(`%s
		%s
		ORDER BY m.fecha_medicion DESC, m.id_medicion DESC`,
		selectColumns, w.Clause())

	items := []Measurement{}
	if err := r.db.SelectContext(ctx, &items, query, w.Args()...); err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}

	return items, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Measurement, error) {
	query := selectColumns + `
		WHERE m.id_medicion = $1`

	var m Measurement
	err := r.db.GetContext(ctx, &m, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get measurement: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get measurement: %w", err)
	}

	return &m, nil
}

// Create uses the caller's reading time when one is set and the server
// clock otherwise.
func (r *repository) Create(ctx context.Context, m *Measurement) error {
	query := `
		INSERT INTO mediciones (valor, unidad, fecha_medicion, id_sensor)
		VALUES ($1, $2, COALESCE($3, NOW()), $4)
		RETURNING id_medicion, fecha_medicion`

	var measuredAt any
	if !m.MeasuredAt.IsZero() {
		measuredAt = m.MeasuredAt
	}

	err := r.db.QueryRowxContext(ctx, query,
		m.Value,
		m.Unit,
		measuredAt,
		m.SensorID,
	).Scan(&m.ID, &m.MeasuredAt)
	if err != nil {
		return core.TranslateWriteError("create measurement", err)
	}

	return nil
}

func (r *repository) Update(
	ctx context.Context,
	id int64,
	patch Patch,
) (*Measurement, error) {
	var set core.Assignments
	core.Assign(&set, "valor", patch.Value)
	core.Assign(&set, "unidad", patch.Unit)
	core.Assign(&set, "fecha_medicion", patch.MeasuredAt)
	core.Assign(&set, "id_sensor", patch.SensorID)

	if set.Empty() {
		return r.GetByID(ctx, id)
	}

	assignments, next := set.SQL()
	query := fmt.Sprintf(`
		UPDATE mediciones
		SET %s
		WHERE id_medicion = $%d`,
		assignments, next)

	result, err := r.db.ExecContext(ctx, query, append(set.Args(), id)...)
	if err != nil {
		return nil, core.TranslateWriteError("update measurement", err)
	}

	if err := core.RequireAffected(result, "update measurement"); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM mediciones WHERE id_medicion = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return core.TranslateDeleteError("delete measurement", err)
	}

	return core.RequireAffected(result, "delete measurement")
}
