// AngelaMos | 2026
// repository_test.go

package dashboard

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrourbano/farmdash/internal/testutil/dbmock"
)

func TestRepository_Count(t *testing.T) {
	db, mock := dbmock.New(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sensores WHERE estado = $1")).
		WithArgs("activo").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	n, err := repo.Count(context.Background(), Counter{
		Table: "sensores",
		Where: "estado = $1",
		Args:  []any{"activo"},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestRepository_SensorStatus(t *testing.T) {
	db, mock := dbmock.New(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY tipo_sensor")).
		WillReturnRows(sqlmock.NewRows([]string{"tipo_sensor", "total", "activo", "inactivo", "mantenimiento"}).
			AddRow("humedad", 3, 2, 0, 1).
			AddRow("temperatura", 2, 2, 0, 0))

	rows, err := repo.SensorStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, SensorStatusRow{Type: "humedad", Total: 3, Active: 2, Maintenance: 1}, rows[0])
}
