// AngelaMos | 2026
// denylist.go

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agrourbano/farmdash/internal/core"
	"github.com/agrourbano/farmdash/internal/middleware"
)

const denylistPrefix = "farmdash:denylist:"

// Denylist remembers revoked access token ids until they expire.
type Denylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RedisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) Revoke(
	ctx context.Context,
	jti string,
	ttl time.Duration,
) error {
	if err := d.client.Set(ctx, denylistPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("deny token: %w", err)
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check denylist: %w", err)
	}
	return n > 0, nil
}

// Verifier checks signature and claims, then the deny list. A deny list
// outage lets otherwise valid tokens through and is logged.
type Verifier struct {
	jwt      *JWTManager
	denylist Denylist
}

func NewVerifier(jwt *JWTManager, denylist Denylist) *Verifier {
	return &Verifier{jwt: jwt, denylist: denylist}
}

func (v *Verifier) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := v.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if claims.JTI == "" {
		return claims, nil
	}

	revoked, err := v.denylist.IsRevoked(ctx, claims.JTI)
	if err != nil {
		slog.WarnContext(ctx, "denylist unavailable, accepting token",
			"user_id", claims.UserID,
			"error", err,
		)
		return claims, nil
	}

	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}
