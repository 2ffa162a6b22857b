// AngelaMos | 2026
// repository.go

package dashboard

import (
	"context"
	"fmt"

	"github.com/agrourbano/farmdash/internal/core"
)

// Counter is a COUNT(*) over one table with an optional predicate. Table
// and Where are code constants.
type Counter struct {
	Table string
	Where string
	Args  []any
}

type Repository interface {
	Count(ctx context.Context, c Counter) (int, error)
	SensorStatus(ctx context.Context) ([]SensorStatusRow, error)
}

type SensorStatusRow struct {
	Type        string `db:"tipo_sensor"`
	Total       int    `db:"total"`
	Active      int    `db:"activo"`
	Inactive    int    `db:"inactivo"`
	Maintenance int    `db:"mantenimiento"`
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Count(ctx context.Context, c Counter) (int, error) {
	query := "SELECT COUNT(*) FROM " + c.Table
	if c.Where != "" {
		query += " WHERE " + c.Where
	}

	var n int
	if err := r.db.GetContext(ctx, &n, query, c.Args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", c.Table, err)
	}

	return n, nil
}

func (r *repository) SensorStatus(ctx context.Context) ([]SensorStatusRow, error) {
	query := `
		SELECT tipo_sensor,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE estado = 'activo') AS activo,
			COUNT(*) FILTER (WHERE estado = 'inactivo') AS inactivo,
			COUNT(*) FILTER (WHERE estado = 'mantenimiento') AS mantenimiento
		FROM sensores
		GROUP BY tipo_sensor
		ORDER BY tipo_sensor`

	rows := []SensorStatusRow{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("sensor status: %w", err)
	}

	return rows, nil
}
