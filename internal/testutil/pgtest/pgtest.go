// AngelaMos | 2026
// pgtest.go

// Package pgtest starts a throwaway Postgres in Docker, applies the schema
// and hands back a connected pool. Tests are skipped under -short or when
// Docker is not reachable.
package pgtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/agrourbano/farmdash/internal/migrations"
)

const (
	image    = "postgres:16-alpine"
	user     = "farm"
	password = "farm"
	database = "farmdash_test"
)

// New returns a migrated database that is torn down when t finishes.
func New(t *testing.T) *sqlx.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in -short mode")
	}

	ctx := context.Background()

	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		t.Fatalf("postgres port: %v", err)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{string(port)},
			Env: map[string]string{
				"POSTGRES_USER":     user,
				"POSTGRES_PASSWORD": password,
				"POSTGRES_DB":       database,
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort(port),
			).WithDeadline(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}

	mapped, err := container.MappedPort(ctx, port)
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, password, host, mapped.Port(), database)

	if err := migrations.Up(url); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	db, err := sqlx.ConnectContext(ctx, "pgx", url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() }) //nolint:errcheck // test cleanup

	return db
}

func SeedUser(t *testing.T, db *sqlx.DB, email string) int64 {
	t.Helper()
	return insert(t, db, `
		INSERT INTO usuarios (nombre, email, password_hash, rol)
		VALUES ($1, $2, 'x', 'tecnico')
		RETURNING id_usuario`, "Seed "+email, email)
}

func SeedPlot(t *testing.T, db *sqlx.DB, userID int64, name string) int64 {
	t.Helper()
	return insert(t, db, `
		INSERT INTO parcelas (nombre, ubicacion, area_m2, tipo_cultivo, id_usuario_responsable)
		VALUES ($1, 'Azotea', 25, 'lechuga', $2)
		RETURNING id_parcela`, name, userID)
}

func SeedSensor(t *testing.T, db *sqlx.DB, plotID int64, tipo string) int64 {
	t.Helper()
	return insert(t, db, `
		INSERT INTO sensores (nombre, tipo_sensor, ubicacion, id_parcela)
		VALUES ($1, $2, 'Norte', $3)
		RETURNING id_sensor`, "S-"+tipo, tipo, plotID)
}

func insert(t *testing.T, db *sqlx.DB, query string, args ...any) int64 {
	t.Helper()

	var id int64
	if err := db.GetContext(context.Background(), &id, query, args...); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return id
}
