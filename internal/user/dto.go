// AngelaMos | 2026
// dto.go

package user

import (
	"strings"
	"time"

	"github.com/agrourbano/farmdash/internal/filter"
)

type CreateUserRequest struct {
	Name     string `json:"nombre"   validate:"required,notblank,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"rol"      validate:"required,oneof=administrador tecnico"`
	Active   *bool  `json:"activo"`
}

// UpdateUserRequest is a partial update; omitted fields are left alone.
// The password is only replaced when one is sent.
type UpdateUserRequest struct {
	Name     *string `json:"nombre,omitempty"   validate:"omitempty,notblank,max=100"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
	Role     *string `json:"rol,omitempty"      validate:"omitempty,oneof=administrador tecnico"`
	Active   *bool   `json:"activo,omitempty"`
}

type UserResponse struct {
	ID         int64     `json:"id_usuario"`
	Name       string    `json:"nombre"`
	Email      string    `json:"email"`
	Role       string    `json:"rol"`
	Active     bool      `json:"activo"`
	CreatedAt  time.Time `json:"fecha_creacion"`
	TotalPlots int       `json:"total_parcelas"`
}

// Patch carries the columns an update writes. Nil means untouched.
type Patch struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *string
	Active       *bool
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

type ListParams struct {
	Search string `validate:"omitempty,max=100"`
	Role   string `validate:"omitempty,oneof=administrador tecnico"`
	Status string `validate:"omitempty,oneof=activo inactivo"`
}

func ListParamsFromFilter(s filter.Criteria) ListParams {
	return ListParams{
		Search: s.Search,
		Role:   s.Rol,
		Status: s.Status,
	}
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Active:     u.Active,
		CreatedAt:  u.CreatedAt,
		TotalPlots: u.PlotCount,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
