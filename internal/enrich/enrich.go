// AngelaMos | 2026
// enrich.go

// Package enrich adds display fields to list rows: child counts from one
// grouped query, and the placeholder used when a related name is missing.
package enrich

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/agrourbano/farmdash/internal/core"
)

// Unassigned is shown in place of a related entity's name when the
// relation does not resolve.
const Unassigned = "Sin asignar"

// Relation names a child table and the column pointing at its parent.
// Both are code constants and are interpolated into SQL.
type Relation struct {
	Table    string
	ParentFK string
}

var (
	PlotsPerUser          = Relation{Table: "parcelas", ParentFK: "id_usuario_responsable"}
	SensorsPerPlot        = Relation{Table: "sensores", ParentFK: "id_parcela"}
	MeasurementsPerSensor = Relation{Table: "mediciones", ParentFK: "id_sensor"}
)

type countRow struct {
	ParentID int64 `db:"parent_id"`
	Total    int   `db:"total"`
}

// Counts returns the number of child rows per parent id with a single
// grouped query. Parents with no children are absent from the map.
func Counts(
	ctx context.Context,
	db core.DBTX,
	rel Relation,
	ids []int64,
) (map[int64]int, error) {
	counts := make(map[int64]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	ctx, span := core.StartSpan(ctx, "enrich.Counts",
		attribute.String("table", rel.Table),
		attribute.Int("parents", len(ids)),
	)
	defer span.End()

	query := fmt.Sprintf(`
		SELECT %[2]s AS parent_id, COUNT(*) AS total
		FROM %[1]s
		WHERE %[2]s = ANY($1)
		GROUP BY %[2]s`,
		rel.Table, rel.ParentFK)

	var rows []countRow
	if err := db.SelectContext(ctx, &rows, query, ids); err != nil {
		core.SetSpanError(span, err)
		return nil, fmt.Errorf("count %s by %s: %w", rel.Table, rel.ParentFK, err)
	}

	for _, row := range rows {
		counts[row.ParentID] = row.Total
	}

	return counts, nil
}

// Apply runs Counts for items and stores each result with set.
func Apply[T any](
	ctx context.Context,
	db core.DBTX,
	rel Relation,
	items []T,
	id func(*T) int64,
	set func(*T, int),
) error {
	ids := make([]int64, len(items))
	for i := range items {
		ids[i] = id(&items[i])
	}

	counts, err := Counts(ctx, db, rel, ids)
	if err != nil {
		return err
	}

	for i := range items {
		set(&items[i], counts[id(&items[i])])
	}

	return nil
}
