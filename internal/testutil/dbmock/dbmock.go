// AngelaMos | 2026
// dbmock.go

// Package dbmock builds sqlx handles backed by go-sqlmock for repository
// tests that assert on SQL without a running Postgres.
package dbmock

import (
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

// passthrough lets slice arguments such as []int64 reach the mock the way
// pgx accepts them for "= ANY($1)".
type passthrough struct{}

func (passthrough) ConvertValue(v any) (driver.Value, error) {
	switch v.(type) {
	case []int64, []string:
		return v, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

func New(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(passthrough{}))
	if err != nil {
		t.Fatalf("open sqlmock: %v", err)
	}

	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sql expectations: %v", err)
		}
		_ = db.Close() //nolint:errcheck // test cleanup
	})

	return sqlx.NewDb(db, "pgx"), mock
}
