// AngelaMos | 2026
// service_test.go

package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agrourbano/farmdash/internal/alert"
)

// fakeRepo answers counts from a table keyed by "table|where".
type fakeRepo struct {
	mu     sync.Mutex
	counts map[string]int
	fail   string
	status []SensorStatusRow
	seen   []Counter
}

func (f *fakeRepo) Count(_ context.Context, c Counter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seen = append(f.seen, c)
	key := c.Table + "|" + c.Where
	if len(c.Args) > 0 {
		key += "|" + c.Args[0].(string)
	}
	if key == f.fail {
		return 0, errors.New("connection reset")
	}
	return f.counts[key], nil
}

func (f *fakeRepo) SensorStatus(context.Context) ([]SensorStatusRow, error) {
	return f.status, nil
}

type mockAlerts struct {
	mock.Mock
}

func (m *mockAlerts) List(ctx context.Context, params alert.ListParams) ([]alert.Alert, error) {
	args := m.Called(ctx, params)
	a, _ := args.Get(0).([]alert.Alert)
	return a, args.Error(1)
}

func TestService_Summary(t *testing.T) {
	repo := &fakeRepo{counts: map[string]int{
		"usuarios|":                           4,
		"parcelas|":                           6,
		"sensores|":                           12,
		"sensores|estado = $1|activo":         9,
		"alertas|":                            20,
		"alertas|estado = $1|pendiente":       7,
		"alertas|nivel_urgencia = $1|critico": 3,
	}}

	sum, err := NewService(repo, &mockAlerts{}).Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{
		TotalUsers:     4,
		TotalPlots:     6,
		TotalSensors:   12,
		ActiveSensors:  9,
		TotalAlerts:    20,
		PendingAlerts:  7,
		CriticalAlerts: 3,
	}, *sum)
	assert.Len(t, repo.seen, 7)
}

func TestService_SummaryFailsWhenAnyCountFails(t *testing.T) {
	repo := &fakeRepo{fail: "alertas|estado = $1|pendiente"}

	_, err := NewService(repo, &mockAlerts{}).Summary(context.Background())
	assert.ErrorContains(t, err, "connection reset")
}

func TestService_RecentAlerts(t *testing.T) {
	alerts := &mockAlerts{}
	alerts.On("List", mock.Anything, alert.ListParams{Status: alert.StatusPending, Limit: 5}).
		Return([]alert.Alert{{ID: 9}, {ID: 8}}, nil)

	got, err := NewService(&fakeRepo{}, alerts).RecentAlerts(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	alerts.AssertExpectations(t)
}

func TestService_SensorStatus(t *testing.T) {
	repo := &fakeRepo{status: []SensorStatusRow{
		{Type: "humedad", Total: 3, Active: 2, Maintenance: 1},
		{Type: "luz", Total: 1, Inactive: 1},
	}}

	got, err := NewService(repo, &mockAlerts{}).SensorStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]TypeStatus{
		"humedad": {Total: 3, Active: 2, Maintenance: 1},
		"luz":     {Total: 1, Inactive: 1},
	}, got)
	assert.NotContains(t, got, "temperatura")
}
