// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agrourbano/farmdash/internal/config"
	"github.com/agrourbano/farmdash/internal/core"
	"github.com/agrourbano/farmdash/internal/middleware"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, token *RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockRepo) FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	t, _ := args.Get(0).(*RefreshToken)
	return t, args.Error(1)
}

func (m *mockRepo) FindByID(ctx context.Context, id string) (*RefreshToken, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*RefreshToken)
	return t, args.Error(1)
}

func (m *mockRepo) MarkAsUsed(ctx context.Context, id, replacedByID string) error {
	return m.Called(ctx, id, replacedByID).Error(0)
}

func (m *mockRepo) RevokeByID(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) RevokeByFamilyID(ctx context.Context, familyID string) error {
	return m.Called(ctx, familyID).Error(0)
}

func (m *mockRepo) RevokeAllForUser(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockRepo) ListActiveForUser(ctx context.Context, userID int64) ([]RefreshToken, error) {
	args := m.Called(ctx, userID)
	tokens, _ := args.Get(0).([]RefreshToken)
	return tokens, args.Error(1)
}

func (m *mockRepo) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type fakeUsers struct {
	users   []*UserInfo
	updated map[int64]string
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*UserInfo, error) {
	for _, u := range f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("find user: %w", core.ErrNotFound)
}

func (f *fakeUsers) FindByID(_ context.Context, id int64) (*UserInfo, error) {
	for _, u := range f.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("find user: %w", core.ErrNotFound)
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	if f.updated == nil {
		f.updated = map[int64]string{}
	}
	f.updated[id] = hash
	return nil
}

type memDenylist struct {
	mu   sync.Mutex
	jtis map[string]time.Duration
	err  error
}

func (d *memDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.jtis == nil {
		d.jtis = map[string]time.Duration{}
	}
	d.jtis[jti] = ttl
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.jtis[jti]
	return ok, nil
}

func newTestJWT(t *testing.T, accessTTL time.Duration) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")
	require.NoError(t, GenerateKeyPair(priv, pub))

	m, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:     priv,
		PublicKeyPath:      pub,
		AccessTokenExpire:  accessTTL,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "farmdash-test",
		Audience:           "farmdash-dashboard",
	})
	require.NoError(t, err)
	return m
}

const testPassword = "invernadero-7"

func newTestService(t *testing.T, active bool) (*Service, *mockRepo, *fakeUsers, *memDenylist) {
	t.Helper()

	hash, err := core.HashPassword(testPassword)
	require.NoError(t, err)

	users := &fakeUsers{users: []*UserInfo{{
		ID:           5,
		Email:        "lucia@farm.mx",
		Name:         "Lucia",
		PasswordHash: hash,
		Role:         "tecnico",
		Active:       active,
	}}}
	repo := &mockRepo{}
	deny := &memDenylist{}

	return NewService(repo, newTestJWT(t, 15*time.Minute), users, deny), repo, users, deny
}

func TestService_Login(t *testing.T) {
	svc, repo, _, _ := newTestService(t, true)

	var stored *RefreshToken
	repo.On("Create", mock.Anything, mock.AnythingOfType("*auth.RefreshToken")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*RefreshToken) }).
		Return(nil)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "lucia@farm.mx",
		Password: testPassword,
	}, "curl/8", "10.1.1.1")
	require.NoError(t, err)

	assert.Equal(t, int64(5), resp.User.ID)
	assert.Equal(t, "Bearer", resp.Tokens.TokenType)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	require.NotNil(t, stored)
	assert.Equal(t, core.HashToken(resp.Tokens.RefreshToken), stored.TokenHash)
	assert.Equal(t, int64(5), stored.UserID)
	assert.Equal(t, "10.1.1.1", stored.IPAddress)

	claims, err := svc.jwt.VerifyAccessToken(context.Background(), resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID)
	assert.Equal(t, "tecnico", claims.Role)
}

func TestService_LoginFailures(t *testing.T) {
	svc, repo, _, _ := newTestService(t, true)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email: "lucia@farm.mx", Password: "otra-cosa",
	}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{
		Email: "nadie@farm.mx", Password: testPassword,
	}, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_LoginInactive(t *testing.T) {
	svc, repo, _, _ := newTestService(t, false)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email: "lucia@farm.mx", Password: testPassword,
	}, "", "")
	assert.ErrorIs(t, err, ErrInactiveAccount)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_RefreshRotates(t *testing.T) {
	svc, repo, _, _ := newTestService(t, true)

	old := &RefreshToken{
		ID:        "7a1c5a57-6a3c-4a84-9b8e-1f0a0c7e2d11",
		UserID:    5,
		FamilyID:  "fam-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	repo.On("FindByHash", mock.Anything, core.HashToken("opaque")).Return(old, nil)
	repo.On("MarkAsUsed", mock.Anything, old.ID, mock.AnythingOfType("string")).Return(nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(t *RefreshToken) bool {
		return t.FamilyID == "fam-1" && t.UserID == 5
	})).Return(nil)

	resp, err := svc.Refresh(context.Background(), "opaque", "", "")
	require.NoError(t, err)
	assert.NotEqual(t, "opaque", resp.Tokens.RefreshToken)
	repo.AssertExpectations(t)
}

func TestService_RefreshStates(t *testing.T) {
	tests := []struct {
		name    string
		token   RefreshToken
		wantErr error
		family  bool
	}{
		{
			name:    "reused revokes family",
			token:   RefreshToken{IsUsed: true, ExpiresAt: time.Now().Add(time.Hour)},
			wantErr: ErrTokenReuse,
			family:  true,
		},
		{
			name:    "reused and expired still counts as reuse",
			token:   RefreshToken{IsUsed: true, ExpiresAt: time.Now().Add(-time.Hour)},
			wantErr: ErrTokenReuse,
			family:  true,
		},
		{
			name:    "revoked",
			token:   RefreshToken{RevokedAt: ptr(time.Now()), ExpiresAt: time.Now().Add(time.Hour)},
			wantErr: core.ErrTokenRevoked,
		},
		{
			name:    "expired",
			token:   RefreshToken{ExpiresAt: time.Now().Add(-time.Minute)},
			wantErr: core.ErrTokenExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := newTestService(t, true)

			tok := tt.token
			tok.ID = "id-1"
			tok.UserID = 5
			tok.FamilyID = "fam-9"
			repo.On("FindByHash", mock.Anything, mock.Anything).Return(&tok, nil)
			if tt.family {
				repo.On("RevokeByFamilyID", mock.Anything, "fam-9").Return(nil)
			}

			_, err := svc.Refresh(context.Background(), "x", "", "")
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertExpectations(t)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_RefreshUnknownToken(t *testing.T) {
	svc, repo, _, _ := newTestService(t, true)
	repo.On("FindByHash", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound))

	_, err := svc.Refresh(context.Background(), "x", "", "")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestService_RefreshLostRace(t *testing.T) {
	svc, repo, _, _ := newTestService(t, true)

	tok := &RefreshToken{ID: "id-1", UserID: 5, FamilyID: "fam-2", ExpiresAt: time.Now().Add(time.Hour)}
	repo.On("FindByHash", mock.Anything, mock.Anything).Return(tok, nil)
	repo.On("MarkAsUsed", mock.Anything, "id-1", mock.Anything).
		Return(fmt.Errorf("mark refresh token used: %w", core.ErrNotFound))
	repo.On("RevokeByFamilyID", mock.Anything, "fam-2").Return(nil)

	_, err := svc.Refresh(context.Background(), "x", "", "")
	assert.ErrorIs(t, err, ErrTokenReuse)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_LogoutDeniesAccessToken(t *testing.T) {
	svc, repo, _, deny := newTestService(t, true)

	repo.On("FindByHash", mock.Anything, core.HashToken("mine")).
		Return(&RefreshToken{ID: "r-1", UserID: 5}, nil)
	repo.On("RevokeByID", mock.Anything, "r-1").Return(nil)

	claims := &middleware.AccessTokenClaims{
		UserID:    5,
		JTI:       "jti-1",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	require.NoError(t, svc.Logout(context.Background(), claims, "mine"))

	assert.Contains(t, deny.jtis, "jti-1")
	assert.LessOrEqual(t, deny.jtis["jti-1"], 10*time.Minute)
	repo.AssertExpectations(t)
}

func TestService_LogoutForeignToken(t *testing.T) {
	svc, repo, _, _ := newTestService(t, true)

	repo.On("FindByHash", mock.Anything, mock.Anything).
		Return(&RefreshToken{ID: "r-2", UserID: 99}, nil)

	err := svc.Logout(context.Background(), &middleware.AccessTokenClaims{UserID: 5}, "theirs")
	assert.ErrorIs(t, err, core.ErrForbidden)
	repo.AssertNotCalled(t, "RevokeByID", mock.Anything, mock.Anything)
}

func TestService_ChangePassword(t *testing.T) {
	svc, repo, users, deny := newTestService(t, true)
	repo.On("RevokeAllForUser", mock.Anything, int64(5)).Return(nil)

	claims := &middleware.AccessTokenClaims{
		UserID:    5,
		JTI:       "jti-cp",
		ExpiresAt: time.Now().Add(time.Minute),
	}

	err := svc.ChangePassword(context.Background(), claims, ChangePasswordRequest{
		CurrentPassword: "equivocada",
		NewPassword:     "nueva-clave-99",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), claims, ChangePasswordRequest{
		CurrentPassword: testPassword,
		NewPassword:     "nueva-clave-99",
	})
	require.NoError(t, err)

	ok, err := core.VerifyPassword("nueva-clave-99", users.updated[5])
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, deny.jtis, "jti-cp")
	repo.AssertExpectations(t)
}

func TestService_RevokeSessionOwnership(t *testing.T) {
	svc, repo, _, _ := newTestService(t, true)
	id := "0f8fad5b-d9cb-469f-a165-70867728950e"

	repo.On("FindByID", mock.Anything, id).Return(&RefreshToken{ID: id, UserID: 8}, nil)

	err := svc.RevokeSession(context.Background(), 5, id)
	assert.ErrorIs(t, err, core.ErrForbidden)

	err = svc.RevokeSession(context.Background(), 5, "not-a-uuid")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestVerifier_Denylist(t *testing.T) {
	jwt := newTestJWT(t, 15*time.Minute)
	deny := &memDenylist{}
	v := NewVerifier(jwt, deny)

	access, err := jwt.CreateAccessToken(3, "administrador")
	require.NoError(t, err)

	claims, err := v.VerifyAccessToken(context.Background(), access.Token)
	require.NoError(t, err)
	assert.Equal(t, access.JTI, claims.JTI)

	require.NoError(t, deny.Revoke(context.Background(), access.JTI, time.Minute))
	_, err = v.VerifyAccessToken(context.Background(), access.Token)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)

	deny.err = fmt.Errorf("connection refused")
	_, err = v.VerifyAccessToken(context.Background(), access.Token)
	assert.NoError(t, err)
}

func TestJWT_RejectsForeignKey(t *testing.T) {
	issuer := newTestJWT(t, 15*time.Minute)
	other := newTestJWT(t, 15*time.Minute)

	access, err := issuer.CreateAccessToken(1, "administrador")
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(context.Background(), access.Token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = issuer.VerifyAccessToken(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWT_Expired(t *testing.T) {
	m := newTestJWT(t, -time.Minute)

	access, err := m.CreateAccessToken(1, "tecnico")
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(context.Background(), access.Token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestRefreshTokenState(t *testing.T) {
	now := time.Now()
	tok := RefreshToken{ExpiresAt: now}
	assert.Equal(t, tokenExpired, tok.state(now))

	tok.ExpiresAt = now.Add(time.Second)
	assert.Equal(t, tokenUsable, tok.state(now))

	tok.RevokedAt = &now
	assert.Equal(t, tokenRevoked, tok.state(now))

	tok.IsUsed = true
	assert.Equal(t, tokenReused, tok.state(now))
}

func ptr[T any](v T) *T { return &v }
