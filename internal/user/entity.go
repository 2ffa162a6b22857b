// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           int64     `db:"id_usuario"`
	Name         string    `db:"nombre"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"rol"`
	Active       bool      `db:"activo"`
	CreatedAt    time.Time `db:"fecha_creacion"`

	PlotCount int `db:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

const (
	RoleAdmin      = "administrador"
	RoleTechnician = "tecnico"
)

const (
	StatusActive   = "activo"
	StatusInactive = "inactivo"
)
