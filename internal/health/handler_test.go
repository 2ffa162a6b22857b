// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func probe(h *Handler, path string) (int, ReadinessResponse) {
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body ReadinessResponse
	_ = json.NewDecoder(rec.Body).Decode(&body) //nolint:errcheck // asserted through fields
	return rec.Code, body
}

func TestReadiness(t *testing.T) {
	down := pinger{err: errors.New("refused")}

	tests := []struct {
		name       string
		deps       []Dependency
		wantCode   int
		wantStatus string
	}{
		{
			name: "all healthy",
			deps: []Dependency{
				{Name: "postgres", Checker: pinger{}},
				{Name: "redis", Checker: pinger{}, Optional: true},
			},
			wantCode:   http.StatusOK,
			wantStatus: StatusOK,
		},
		{
			name: "optional down",
			deps: []Dependency{
				{Name: "postgres", Checker: pinger{}},
				{Name: "redis", Checker: down, Optional: true},
			},
			wantCode:   http.StatusOK,
			wantStatus: StatusDegraded,
		},
		{
			name: "required down",
			deps: []Dependency{
				{Name: "postgres", Checker: down},
				{Name: "redis", Checker: pinger{}, Optional: true},
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: StatusUnavailable,
		},
		{
			name:       "unconfigured",
			deps:       []Dependency{{Name: "postgres"}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: StatusUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := probe(NewHandler(tt.deps...), "/readyz")
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, body.Status)
			require.Len(t, body.Checks, len(tt.deps))
			assert.Equal(t, tt.deps[0].Name, body.Checks[0].Name)
		})
	}
}

func TestShutdownFailsBothProbes(t *testing.T) {
	h := NewHandler(Dependency{Name: "postgres", Checker: pinger{}})

	code, _ := probe(h, "/livez")
	assert.Equal(t, http.StatusOK, code)

	h.SetShutdown(true)

	code, body := probe(h, "/livez")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, StatusShuttingDown, body.Status)

	code, _ = probe(h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestNotReady(t *testing.T) {
	h := NewHandler(Dependency{Name: "postgres", Checker: pinger{}})
	h.SetReady(false)

	code, body := probe(h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, StatusNotReady, body.Status)
}
