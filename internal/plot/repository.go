// AngelaMos | 2026
// repository.go

package plot

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
	List(ctx context.Context, params ListParams) ([]Plot, error)
	GetByID(ctx context.Context, id int64) (*Plot, error)
	Create(ctx context.Context, plot *Plot) error
	Update(ctx context.Context, id int64, patch Patch) (*Plot, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectColumns = `
	SELECT p.id_parcela, p.nombre, p.ubicacion, p.area_m2, p.tipo_cultivo,
		p.activa, p.fecha_creacion, p.id_usuario_responsable,
		COALESCE(u.nombre, '` + enrich.Unassigned + `') AS usuario_nombre
	FROM parcelas p
	LEFT JOIN usuarios u ON u.id_usuario = p.id_usuario_responsable`

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Plot, error) {
	var w filter.Where
	w.Search(params.Search, "p.nombre", "p.ubicacion", "p.tipo_cultivo").
		Eq("p.activa", filter.StatusFlag(params.Status, StatusActive, StatusInactive)).
		Eq("p.id_usuario_responsable", params.Responsible)

	query := fmt.Sprintf(`%s
		%s
		ORDER BY p.fecha_creacion DESC, p.id_parcela DESC`,
		selectColumns, w.Clause())

	plots := []Plot{}
	if err := r.db.SelectContext(ctx, &plots, query, w.Args()...); err != nil {
		return nil, fmt.Errorf("list plots: %w", err)
	}

	if err := enrich.Apply(ctx, r.db, enrich.SensorsPerPlot, plots,
		func(p *Plot) int64 { return p.ID },
		func(p *Plot, n int) { p.SensorCount = n },
	); err != nil {
		return nil, fmt.Errorf("list plots: %w", err)
	}

	return plots, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Plot, error) {
	query := selectColumns + `
		WHERE p.id_parcela = $1`

	var plot Plot
	err := r.db.GetContext(ctx, &plot, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get plot: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plot: %w", err)
	}

	counts, err := enrich.Counts(ctx, r.db, enrich.SensorsPerPlot, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("get plot: %w", err)
	}
	plot.SensorCount = counts[id]

	return &plot, nil
}

func (r *repository) Create(ctx context.Context, plot *Plot) error {
	query := `
		INSERT INTO parcelas (
			nombre, ubicacion, area_m2, tipo_cultivo, activa, id_usuario_responsable
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id_parcela, fecha_creacion`

	err := r.db.QueryRowxContext(ctx, query,
		plot.Name,
		plot.Location,
		plot.AreaM2,
		plot.CropType,
		plot.Active,
		plot.ResponsibleID,
	).Scan(&plot.ID, &plot.CreatedAt)
	if err != nil {
		return core.TranslateWriteError("create plot", err)
	}

	return nil
}

func (r *repository) Update(
	ctx context.Context,
	id int64,
	patch Patch,
) (*Plot, error) {
	var set core.Assignments
	core.Assign(&set, "nombre", patch.Name)
	core.Assign(&set, "ubicacion", patch.Location)
	core.Assign(&set, "area_m2", patch.AreaM2)
	core.Assign(&set, "tipo_cultivo", patch.CropType)
	core.Assign(&set, "activa", patch.Active)
	core.Assign(&set, "id_usuario_responsable", patch.ResponsibleID)

	if set.Empty() {
		return r.GetByID(ctx, id)
	}

	assignments, next := set.SQL()
	query := fmt.Sprintf(`
		UPDATE parcelas
		SET %s
		WHERE id_parcela = $%d`,
		assignments, next)

	result, err := r.db.ExecContext(ctx, query, append(set.Args(), id)...)
	if err != nil {
		return nil, core.TranslateWriteError("update plot", err)
	}

	if err := core.RequireAffected(result, "update plot"); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM parcelas WHERE id_parcela = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return core.TranslateDeleteError("delete plot", err)
	}

	return core.RequireAffected(result, "delete plot")
}
