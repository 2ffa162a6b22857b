// AngelaMos | 2026
// repository.go

package sensor

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
	List(ctx context.Context, params ListParams) ([]Sensor, error)
	GetByID(ctx context.Context, id int64) (*Sensor, error)
	Create(ctx context.Context, sensor *Sensor) error
	Update(ctx context.Context, id int64, patch Patch) (*Sensor, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectColumns = `
	SELECT s.id_sensor, s.nombre, s.tipo_sensor, s.ubicacion, s.estado,
		s.fecha_instalacion, s.id_parcela,
		COALESCE(p.nombre, '` + enrich.Unassigned + `') AS parcela_nombre
	FROM sensores s
	LEFT JOIN parcelas p ON p.id_parcela = s.id_parcela`

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Sensor, error) {
	var w filter.Where
	w.Search(params.Search, "s.nombre", "s.ubicacion").
		Eq("s.estado", params.Status).
		Eq("s.tipo_sensor", params.Type).
		Eq("s.id_parcela", params.PlotID)

	query := fmt.Sprintf(`%s
		%s
		ORDER BY s.fecha_instalacion DESC, s.id_sensor DESC`,
		selectColumns, w.Clause())

	sensors := []Sensor{}
	if err := r.db.SelectContext(ctx, &sensors, query, w.Args()...); err != nil {
		return nil, fmt.Errorf("list sensors: %w", err)
	}

	if err := enrich.Apply(ctx, r.db, enrich.MeasurementsPerSensor, sensors,
		func(s *Sensor) int64 { return s.ID },
		func(s *Sensor, n int) { s.MeasurementCount = n },
	); err != nil {
		return nil, fmt.Errorf("list sensors: %w", err)
	}

	return sensors, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Sensor, error) {
	query := selectColumns + `
		WHERE s.id_sensor = $1`

	var sensor Sensor
	err := r.db.GetContext(ctx, &sensor, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get sensor: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get sensor: %w", err)
	}

	counts, err := enrich.Counts(ctx, r.db, enrich.MeasurementsPerSensor, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("get sensor: %w", err)
	}
	sensor.MeasurementCount = counts[id]

	return &sensor, nil
}

func (r *repository) Create(ctx context.Context, sensor *Sensor) error {
	query := `
		INSERT INTO sensores (nombre, tipo_sensor, ubicacion, estado, id_parcela)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id_sensor, fecha_instalacion`

	err := r.db.QueryRowxContext(ctx, query,
		sensor.Name,
		sensor.Type,
		sensor.Location,
		sensor.Status,
		sensor.PlotID,
	).Scan(&sensor.ID, &sensor.InstalledAt)
	if err != nil {
		return core.TranslateWriteError("create sensor", err)
	}

	return nil
}

func (r *repository) Update(
	ctx context.Context,
	id int64,
	patch Patch,
) (*Sensor, error) {
	var set core.Assignments
	core.Assign(&set, "nombre", patch.Name)
	core.Assign(&set, "tipo_sensor", patch.Type)
	core.Assign(&set, "ubicacion", patch.Location)
	core.Assign(&set, "estado", patch.Status)
	core.Assign(&set, "id_parcela", patch.PlotID)

	if set.Empty() {
		return r.GetByID(ctx, id)
	}

	assignments, next := set.SQL()
	query := fmt.Sprintf(`
		UPDATE sensores
		SET %s
		WHERE id_sensor = $%d`,
		assignments, next)

	result, err := r.db.ExecContext(ctx, query, append(set.Args(), id)...)
	if err != nil {
		return nil, core.TranslateWriteError("update sensor", err)
	}

	if err := core.RequireAffected(result, "update sensor"); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM sensores WHERE id_sensor = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return core.TranslateDeleteError("delete sensor", err)
	}

	return core.RequireAffected(result, "delete sensor")
}
