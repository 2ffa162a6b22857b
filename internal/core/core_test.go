// AngelaMos | 2026
// core_test.go

package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAppError(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{fmt.Errorf("get plot: %w", ErrNotFound), CodeNotFound, http.StatusNotFound},
		{fmt.Errorf("create: %w", ErrDuplicateKey), CodeDuplicate, http.StatusConflict},
		{fmt.Errorf("create: %w", ErrInvalidReference), CodeInvalidReference, http.StatusUnprocessableEntity},
		{fmt.Errorf("delete: %w", ErrHasDependents), CodeHasDependents, http.StatusConflict},
		{fmt.Errorf("parcela: %w", ErrInvalidInput), CodeValidation, http.StatusBadRequest},
		{fmt.Errorf("delete: %w", ErrForbidden), CodeForbidden, http.StatusForbidden},
		{errors.New("boom"), CodeInternal, http.StatusInternalServerError},
		{TokenExpiredError(), CodeTokenExpired, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		got := ToAppError(tt.err, "parcela")
		assert.Equal(t, tt.code, got.Code, tt.err.Error())
		assert.Equal(t, tt.status, got.StatusCode, tt.err.Error())
	}
}

func TestTranslateErrors(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503"}
	dup := &pgconn.PgError{Code: "23505"}
	check := &pgconn.PgError{Code: "23514"}

	assert.ErrorIs(t, TranslateWriteError("create", fk), ErrInvalidReference)
	assert.ErrorIs(t, TranslateWriteError("create", dup), ErrDuplicateKey)
	assert.ErrorIs(t, TranslateWriteError("create", check), ErrInvalidInput)
	assert.ErrorIs(t, TranslateDeleteError("delete", fk), ErrHasDependents)

	plain := errors.New("conn refused")
	assert.ErrorIs(t, TranslateWriteError("create", plain), plain)
	assert.NotErrorIs(t, TranslateDeleteError("delete", plain), ErrHasDependents)
}

func TestWriteError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("get: %w", ErrNotFound), "sensor")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t,
		`{"success":false,"error":{"code":"NOT_FOUND","message":"sensor not found"}}`,
		rec.Body.String(),
	)
}

func TestInternalErrorHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	InternalServerError(rec, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestList_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	List(rec, []string{"a", "b"}, 2)

	assert.JSONEq(t, `{"success":true,"data":["a","b"],"meta":{"total":2}}`, rec.Body.String())
}

type sample struct {
	Name string  `json:"nombre"  validate:"required,notblank"`
	Area float64 `json:"area_m2" validate:"gt=0"`
}

func TestValidator_UsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Struct(sample{Name: "  ", Area: 0})
	require.Error(t, err)

	msg := FormatValidationError(err)
	assert.Contains(t, msg, "nombre must not be blank")
	assert.Contains(t, msg, "area_m2 must be greater than 0")
}

func TestDecodeJSON(t *testing.T) {
	var dst sample

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nombre":"A","area_m2":2}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "A", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.ErrorIs(t, DecodeJSON(r, &dst), ErrInvalidInput)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.ErrorIs(t, DecodeJSON(r, &dst), ErrInvalidInput)
}

func TestIDParam(t *testing.T) {
	for raw, ok := range map[string]bool{"12": true, "0": false, "x": false, "-1": false} {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", raw)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

		_, err := IDParam(r, "id")
		assert.Equal(t, ok, err == nil, raw)
	}
}

func TestAssignments(t *testing.T) {
	var a Assignments
	assert.True(t, a.Empty())

	name := "Huerto"
	var skipped *string
	Assign(&a, "nombre", &name)
	Assign(&a, "ubicacion", skipped)
	a.AssignExpr("fecha_resolucion", "NOW()")
	active := false
	Assign(&a, "activa", &active)

	sql, next := a.SQL()
	assert.Equal(t, "nombre = $1, fecha_resolucion = NOW(), activa = $2", sql)
	assert.Equal(t, 3, next)
	assert.Equal(t, []any{"Huerto", false}, a.Args())
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("regar-a-las-6")
	require.NoError(t, err)

	ok, err := VerifyPassword("regar-a-las-6", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("otra", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.False(t, NeedsRehash(hash))

	valid, rehash, err := VerifyPasswordTimingSafe("regar-a-las-6", nil)
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Empty(t, rehash)
}
