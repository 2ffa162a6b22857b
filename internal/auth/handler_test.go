// AngelaMos | 2026
// handler_test.go

package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agrourbano/farmdash/internal/core"
	"github.com/agrourbano/farmdash/internal/middleware"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Login(ctx context.Context, req LoginRequest, ua, ip string) (*AuthResponse, error) {
	args := m.Called(ctx, req, ua, ip)
	r, _ := args.Get(0).(*AuthResponse)
	return r, args.Error(1)
}

func (m *mockService) Refresh(ctx context.Context, token, ua, ip string) (*AuthResponse, error) {
	args := m.Called(ctx, token, ua, ip)
	r, _ := args.Get(0).(*AuthResponse)
	return r, args.Error(1)
}

func (m *mockService) Logout(ctx context.Context, claims *middleware.AccessTokenClaims, token string) error {
	return m.Called(ctx, claims, token).Error(0)
}

func (m *mockService) LogoutAll(ctx context.Context, claims *middleware.AccessTokenClaims) error {
	return m.Called(ctx, claims).Error(0)
}

func (m *mockService) Sessions(ctx context.Context, userID int64) ([]SessionInfo, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]SessionInfo)
	return s, args.Error(1)
}

func (m *mockService) RevokeSession(ctx context.Context, userID int64, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockService) ChangePassword(ctx context.Context, claims *middleware.AccessTokenClaims, req ChangePasswordRequest) error {
	return m.Called(ctx, claims, req).Error(0)
}

func (m *mockService) Me(ctx context.Context, userID int64) (*UserResponse, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*UserResponse)
	return u, args.Error(1)
}

func signedIn(id int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), id, "tecnico")))
		})
	}
}

func serve(svc service, method, path, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, signedIn(5))

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_LoginErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"bad credentials", ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
		{"inactive", ErrInactiveAccount, http.StatusForbidden, "account is inactive"},
		{"store down", fmt.Errorf("find user: boom"), http.StatusInternalServerError, core.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Login", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(svc, http.MethodPost, "/auth/login", `{"email":"a@farm.mx","password":"x"}`)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestHandler_LoginValidation(t *testing.T) {
	svc := &mockService{}

	rec := serve(svc, http.MethodPost, "/auth/login", `{"email":"no-email","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_RefreshReuse(t *testing.T) {
	svc := &mockService{}
	svc.On("Refresh", mock.Anything, "tok", mock.Anything, mock.Anything).Return(nil, ErrTokenReuse)

	rec := serve(svc, http.MethodPost, "/auth/refresh", `{"refresh_token":"tok"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_REUSE_DETECTED")
}

func TestHandler_RefreshExpired(t *testing.T) {
	svc := &mockService{}
	svc.On("Refresh", mock.Anything, "tok", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired))

	rec := serve(svc, http.MethodPost, "/auth/refresh", `{"refresh_token":"tok"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), core.CodeTokenExpired)
}

func TestHandler_LogoutWithoutBody(t *testing.T) {
	svc := &mockService{}
	svc.On("Logout", mock.Anything, mock.MatchedBy(func(c *middleware.AccessTokenClaims) bool {
		return c.UserID == 5
	}), "").Return(nil)

	rec := serve(svc, http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_Me(t *testing.T) {
	svc := &mockService{}
	svc.On("Me", mock.Anything, int64(5)).
		Return(&UserResponse{ID: 5, Name: "Lucia", Email: "lucia@farm.mx", Role: "tecnico", Active: true}, nil)

	rec := serve(svc, http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id_usuario":5`)
}

func TestHandler_RevokeForeignSession(t *testing.T) {
	svc := &mockService{}
	svc.On("RevokeSession", mock.Anything, int64(5), "abc").
		Return(fmt.Errorf("revoke session: %w", core.ErrForbidden))

	rec := serve(svc, http.MethodDelete, "/auth/sessions/abc", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
