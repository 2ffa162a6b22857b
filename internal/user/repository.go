// AngelaMos | 2026
// repository.go

package user

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
	List(ctx context.Context, params ListParams) ([]User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByIDWithPassword(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, id int64, patch Patch) (*User, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectColumns = `
	SELECT id_usuario, nombre, email, rol, activo, fecha_creacion
	FROM usuarios`

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]User, error) {
	var w filter.Where
	w.Search(params.Search, "nombre", "email").
		Eq("rol", params.Role).
		Eq("activo", filter.StatusFlag(params.Status, StatusActive, StatusInactive))

	query := fmt.Sprintf(`%s
		%s
		ORDER BY fecha_creacion DESC, id_usuario DESC`,
		selectColumns, w.Clause())

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query, w.Args()...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	if err := enrich.Apply(ctx, r.db, enrich.PlotsPerUser, users,
		func(u *User) int64 { return u.ID },
		func(u *User, n int) { u.PlotCount = n },
	); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := selectColumns + `
		WHERE id_usuario = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	counts, err := enrich.Counts(ctx, r.db, enrich.PlotsPerUser, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	user.PlotCount = counts[id]

	return &user, nil
}

const credentialColumns = `
	SELECT id_usuario, nombre, email, password_hash, rol, activo, fecha_creacion
	FROM usuarios`

// GetByEmail and GetByIDWithPassword are the only reads that return the
// password hash.
func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	return r.getCredentials(ctx, "get user by email", "email", email)
}

func (r *repository) GetByIDWithPassword(
	ctx context.Context,
	id int64,
) (*User, error) {
	return r.getCredentials(ctx, "get user credentials", "id_usuario", id)
}

func (r *repository) getCredentials(
	ctx context.Context,
	op, column string,
	value any,
) (*User, error) {
	query := credentialColumns + `
		WHERE ` + column + ` = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO usuarios (nombre, email, password_hash, rol, activo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id_usuario, fecha_creacion`

	err := r.db.QueryRowxContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Active,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return core.TranslateWriteError("create user", err)
	}

	return nil
}

func (r *repository) Update(
	ctx context.Context,
	id int64,
	patch Patch,
) (*User, error) {
	var set core.Assignments
	core.Assign(&set, "nombre", patch.Name)
	core.Assign(&set, "email", patch.Email)
	core.Assign(&set, "password_hash", patch.PasswordHash)
	core.Assign(&set, "rol", patch.Role)
	core.Assign(&set, "activo", patch.Active)

	if set.Empty() {
		return r.GetByID(ctx, id)
	}

	assignments, next := set.SQL()
	query := fmt.Sprintf(`
		UPDATE usuarios
		SET %s
		WHERE id_usuario = $%d`,
		assignments, next)

	result, err := r.db.ExecContext(ctx, query, append(set.Args(), id)...)
	if err != nil {
		return nil, core.TranslateWriteError("update user", err)
	}

	if err := core.RequireAffected(result, "update user"); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM usuarios WHERE id_usuario = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return core.TranslateDeleteError("delete user", err)
	}

	return core.RequireAffected(result, "delete user")
}
