// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/agrourbano/farmdash/internal/core"
	"github.com/agrourbano/farmdash/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is inactive")
	ErrTokenReuse         = errors.New("refresh token reuse detected")
)

// UserProvider is implemented by the user service. Auth never writes the
// usuarios table except to upgrade a password hash.
type UserProvider interface {
	FindByEmail(ctx context.Context, email string) (*UserInfo, error)
	FindByID(ctx context.Context, id int64) (*UserInfo, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type Service struct {
	repo     Repository
	jwt      *JWTManager
	users    UserProvider
	denylist Denylist
	now      func() time.Time
}

func NewService(
	repo Repository,
	jwt *JWTManager,
	users UserProvider,
	denylist Denylist,
) *Service {
	return &Service{
		repo:     repo,
		jwt:      jwt,
		users:    users,
		denylist: denylist,
		now:      time.Now,
	}
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // always hash so unknown emails take as long as known ones
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrInactiveAccount
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	return s.issue(ctx, user, userAgent, ipAddress, "")
}

// Refresh rotates a refresh token. Presenting a token that was already
// rotated revokes every token in its family.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken, userAgent, ipAddress string,
) (*AuthResponse, error) {
	stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	switch stored.state(s.now()) {
	case tokenReused:
		return nil, s.revokeFamily(ctx, stored)
	case tokenRevoked:
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
	case tokenExpired:
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	case tokenUsable:
	}

	user, err := s.users.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	if !user.Active {
		if err := s.repo.RevokeByFamilyID(ctx, stored.FamilyID); err != nil {
			return nil, fmt.Errorf("refresh: %w", err)
		}
		return nil, ErrInactiveAccount
	}

	newID := uuid.New().String()
	if err := s.repo.MarkAsUsed(ctx, stored.ID, newID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, s.revokeFamily(ctx, stored)
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	return s.issueWithID(ctx, newID, user, userAgent, ipAddress, stored.FamilyID)
}

func (s *Service) revokeFamily(ctx context.Context, stored *RefreshToken) error {
	slog.WarnContext(ctx, "refresh token reuse, revoking family",
		"user_id", stored.UserID,
		"family_id", stored.FamilyID,
	)

	if err := s.repo.RevokeByFamilyID(ctx, stored.FamilyID); err != nil {
		return fmt.Errorf("revoke family: %w", err)
	}

	return ErrTokenReuse
}

// Logout revokes the given refresh token, if any, and deny-lists the access
// token that made the request until it would have expired anyway.
func (s *Service) Logout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
	refreshToken string,
) error {
	if refreshToken != "" {
		stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
		switch {
		case errors.Is(err, core.ErrNotFound):
		case err != nil:
			return fmt.Errorf("logout: %w", err)
		case stored.UserID != claims.UserID:
			return fmt.Errorf("logout: %w", core.ErrForbidden)
		default:
			if err := s.repo.RevokeByID(ctx, stored.ID); err != nil &&
				!errors.Is(err, core.ErrNotFound) {
				return fmt.Errorf("logout: %w", err)
			}
		}
	}

	return s.denyAccessToken(ctx, claims)
}

func (s *Service) LogoutAll(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
) error {
	if err := s.repo.RevokeAllForUser(ctx, claims.UserID); err != nil {
		return fmt.Errorf("logout all: %w", err)
	}

	return s.denyAccessToken(ctx, claims)
}

func (s *Service) denyAccessToken(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
) error {
	if claims.JTI == "" {
		return nil
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.denylist.Revoke(ctx, claims.JTI, ttl); err != nil {
		return fmt.Errorf("deny access token: %w", err)
	}

	return nil
}

func (s *Service) Sessions(ctx context.Context, userID int64) ([]SessionInfo, error) {
	tokens, err := s.repo.ListActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	sessions := make([]SessionInfo, 0, len(tokens))
	for _, t := range tokens {
		sessions = append(sessions, SessionInfo{
			ID:        t.ID,
			UserAgent: t.UserAgent,
			IPAddress: t.IPAddress,
			CreatedAt: t.CreatedAt,
			ExpiresAt: t.ExpiresAt,
		})
	}

	return sessions, nil
}

func (s *Service) RevokeSession(
	ctx context.Context,
	userID int64,
	sessionID string,
) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", core.ErrNotFound)
	}

	token, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}

	if token.UserID != userID {
		return fmt.Errorf("revoke session: %w", core.ErrForbidden)
	}

	return s.repo.RevokeByID(ctx, sessionID)
}

// ChangePassword replaces the caller's password and signs out every other
// session.
func (s *Service) ChangePassword(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
	req ChangePasswordRequest,
) error {
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	valid, err := core.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return ErrInvalidCredentials
	}

	hash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	return s.LogoutAll(ctx, claims)
}

func (s *Service) Me(ctx context.Context, userID int64) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// PruneExpired deletes refresh tokens that expired more than grace ago.
func (s *Service) PruneExpired(ctx context.Context, grace time.Duration) (int64, error) {
	return s.repo.DeleteExpired(ctx, grace)
}

func (s *Service) issue(
	ctx context.Context,
	user *UserInfo,
	userAgent, ipAddress, familyID string,
) (*AuthResponse, error) {
	return s.issueWithID(ctx, uuid.New().String(), user, userAgent, ipAddress, familyID)
}

func (s *Service) issueWithID(
	ctx context.Context,
	tokenID string,
	user *UserInfo,
	userAgent, ipAddress, familyID string,
) (*AuthResponse, error) {
	access, err := s.jwt.CreateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := s.jwt.newRefreshToken(familyID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &RefreshToken{
		ID:        tokenID,
		UserID:    user.ID,
		TokenHash: refresh.Hash,
		FamilyID:  refresh.FamilyID,
		ExpiresAt: refresh.ExpiresAt,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResponse{
		User: toUserResponse(user),
		Tokens: TokenResponse{
			AccessToken:  access.Token,
			RefreshToken: refresh.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(time.Until(access.ExpiresAt).Round(time.Second) / time.Second),
			ExpiresAt:    access.ExpiresAt,
		},
	}, nil
}
