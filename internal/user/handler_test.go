// AngelaMos | 2026
// handler_test.go

package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agrourbano/farmdash/internal/core"
	"github.com/agrourbano/farmdash/internal/middleware"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) List(ctx context.Context, params ListParams) ([]User, error) {
	args := m.Called(ctx, params)
	users, _ := args.Get(0).([]User)
	return users, args.Error(1)
}

func (m *mockService) Get(ctx context.Context, id int64) (*User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockService) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockService) Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	args := m.Called(ctx, id, req)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockService) Delete(ctx context.Context, requesterID, id int64) error {
	return m.Called(ctx, requesterID, id).Error(0)
}

func passthrough(next http.Handler) http.Handler { return next }

func asUser(id int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithUser(r.Context(), id, RoleAdmin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRouter(svc service, authn func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, authn, passthrough)
	return r
}

func TestHandler_ListPassesFilters(t *testing.T) {
	svc := &mockService{}
	svc.On("List", mock.Anything, ListParams{Search: "ana", Role: RoleAdmin}).
		Return([]User{{ID: 1, Name: "Ana", Role: RoleAdmin, PlotCount: 2, CreatedAt: time.Now()}}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/usuarios/?search=ana&rol=administrador&foo=bar", nil)
	newRouter(svc, passthrough).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data, 1)
	assert.EqualValues(t, 2, body.Data[0]["total_parcelas"])
	assert.NotContains(t, body.Data[0], "password_hash")
	svc.AssertExpectations(t)
}

func TestHandler_ListRejectsUnknownRole(t *testing.T) {
	svc := &mockService{}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/usuarios/?rol=jardinero", nil)
	newRouter(svc, passthrough).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestHandler_CreateValidation(t *testing.T) {
	svc := &mockService{}

	rec := httptest.NewRecorder()
	body := `{"nombre":"Eva","email":"no-es-email","password":"corta","rol":"tecnico"}`
	req := httptest.NewRequest(http.MethodPost, "/usuarios/", strings.NewReader(body))
	newRouter(svc, passthrough).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email must be a valid email address")
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandler_CreateDuplicate(t *testing.T) {
	svc := &mockService{}
	svc.On("Create", mock.Anything, mock.AnythingOfType("CreateUserRequest")).
		Return(nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey))

	rec := httptest.NewRecorder()
	body := `{"nombre":"Eva","email":"eva@farm.mx","password":"suficiente","rol":"tecnico"}`
	req := httptest.NewRequest(http.MethodPost, "/usuarios/", strings.NewReader(body))
	newRouter(svc, passthrough).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE")
}

func TestHandler_GetNotFound(t *testing.T) {
	svc := &mockService{}
	svc.On("Get", mock.Anything, int64(42)).Return(nil, fmt.Errorf("get user: %w", core.ErrNotFound))

	rec := httptest.NewRecorder()
	newRouter(svc, passthrough).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/usuarios/42", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_GetBadID(t *testing.T) {
	svc := &mockService{}

	rec := httptest.NewRecorder()
	newRouter(svc, passthrough).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/usuarios/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_DeletePassesRequester(t *testing.T) {
	svc := &mockService{}
	svc.On("Delete", mock.Anything, int64(7), int64(7)).
		Return(fmt.Errorf("delete own account: %w", core.ErrForbidden))

	rec := httptest.NewRecorder()
	newRouter(svc, asUser(7)).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/usuarios/7", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	svc.AssertExpectations(t)
}
