// AngelaMos | 2026
// repository_test.go

package plot

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrourbano/farmdash/internal/core"
	"github.com/agrourbano/farmdash/internal/enrich"
	"github.com/agrourbano/farmdash/internal/testutil/dbmock"
)

var plotColumns = []string{
	"id_parcela", "nombre", "ubicacion", "area_m2", "tipo_cultivo",
	"activa", "fecha_creacion", "id_usuario_responsable", "usuario_nombre",
}

func TestRepository_ListJoinsResponsibleAndCountsSensors(t *testing.T) {
	db, mock := dbmock.New(t)
	repo := NewRepository(db)

	owner := int64(3)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE (p.nombre ILIKE $1 OR p.ubicacion ILIKE $1 OR p.tipo_cultivo ILIKE $1) " +
			"AND p.activa = $2 AND p.id_usuario_responsable = $3",
	)).
		WithArgs("%50\\%%", false, owner).
		WillReturnRows(sqlmock.NewRows(plotColumns).
			AddRow(int64(9), "Terraza", "Norte", 20.0, "50% hierbas", false, now, owner, "Ana").
			AddRow(int64(4), "Patio", "Sur", 8.5, "50% flores", false, now, owner, enrich.Unassigned))

	mock.ExpectQuery(regexp.QuoteMeta("FROM sensores")).
		WithArgs([]int64{9, 4}).
		WillReturnRows(sqlmock.NewRows([]string{"parent_id", "total"}).
			AddRow(int64(9), 2).
			AddRow(int64(4), 5))

	plots, err := repo.List(context.Background(), ListParams{
		Search:      "50%",
		Status:      StatusInactive,
		Responsible: &owner,
	})
	require.NoError(t, err)
	require.Len(t, plots, 2)

	assert.Equal(t, 2, plots[0].SensorCount)
	assert.Equal(t, 5, plots[1].SensorCount)
	assert.Equal(t, enrich.Unassigned, plots[1].ResponsibleName)
}

func TestRepository_ListStoreFailure(t *testing.T) {
	db, mock := dbmock.New(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM parcelas p")).
		WillReturnError(assert.AnError)

	plots, err := repo.List(context.Background(), ListParams{})
	assert.Nil(t, plots)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRepository_DeleteRestricted(t *testing.T) {
	db, mock := dbmock.New(t)
	repo := NewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM parcelas WHERE id_parcela = $1")).
		WithArgs(int64(4)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Delete(context.Background(), 4)
	assert.ErrorIs(t, err, core.ErrHasDependents)
}

func TestRepository_DeleteMissing(t *testing.T) {
	db, mock := dbmock.New(t)
	repo := NewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM parcelas")).
		WithArgs(int64(40)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 40)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepository_CreateBadResponsible(t *testing.T) {
	db, mock := dbmock.New(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO parcelas")).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Create(context.Background(), &Plot{Name: "x", AreaM2: 1, ResponsibleID: 999})
	assert.ErrorIs(t, err, core.ErrInvalidReference)
}
