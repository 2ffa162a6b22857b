// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// RefreshToken is a stored session. Only the SHA-256 of the opaque token
// is kept; rotations within one login share a FamilyID.
type RefreshToken struct {
	ID           string     `db:"id"`
	UserID       int64      `db:"id_usuario"`
	TokenHash    string     `db:"token_hash"`
	FamilyID     string     `db:"family_id"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	IsUsed       bool       `db:"is_used"`
	UsedAt       *time.Time `db:"used_at"`
	RevokedAt    *time.Time `db:"revoked_at"`
	ReplacedByID *string    `db:"replaced_by_id"`
	UserAgent    string     `db:"user_agent"`
	IPAddress    string     `db:"ip_address"`
}

type tokenState int

const (
	tokenUsable tokenState = iota
	tokenReused
	tokenRevoked
	tokenExpired
)

// state orders the checks so a replayed token is reported as reuse even
// when it has also expired since.
func (t *RefreshToken) state(now time.Time) tokenState {
	switch {
	case t.IsUsed:
		return tokenReused
	case t.RevokedAt != nil:
		return tokenRevoked
	case !now.Before(t.ExpiresAt):
		return tokenExpired
	default:
		return tokenUsable
	}
}

// UserInfo is what authentication needs to know about a staff member.
type UserInfo struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         string
	Active       bool
}
