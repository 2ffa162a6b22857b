// AngelaMos | 2026
// service.go

// Package dashboard serves the home screen rollups and the admin-only
// system stats.
package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/agrourbano/farmdash/internal/alert"
	"github.com/agrourbano/farmdash/internal/sensor"
)

const recentAlertsLimit = 5

// AlertLister is the slice of the alert service the dashboard reads.
type AlertLister interface {
	List(ctx context.Context, params alert.ListParams) ([]alert.Alert, error)
}

type Summary struct {
	TotalUsers     int `json:"totalUsuarios"`
	TotalPlots     int `json:"totalParcelas"`
	TotalSensors   int `json:"totalSensores"`
	ActiveSensors  int `json:"sensoresActivos"`
	TotalAlerts    int `json:"totalAlertas"`
	PendingAlerts  int `json:"alertasPendientes"`
	CriticalAlerts int `json:"alertasCriticas"`
}

type TypeStatus struct {
	Total       int `json:"total"`
	Active      int `json:"activo"`
	Inactive    int `json:"inactivo"`
	Maintenance int `json:"mantenimiento"`
}

type Service struct {
	repo   Repository
	alerts AlertLister
}

func NewService(repo Repository, alerts AlertLister) *Service {
	return &Service{repo: repo, alerts: alerts}
}

// Summary runs every count concurrently and fails if any of them fails.
// Critical alerts are counted whatever their status.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var sum Summary

	counts := []struct {
		dst *int
		c   Counter
	}{
		{&sum.TotalUsers, Counter{Table: "usuarios"}},
		{&sum.TotalPlots, Counter{Table: "parcelas"}},
		{&sum.TotalSensors, Counter{Table: "sensores"}},
		{&sum.ActiveSensors, Counter{Table: "sensores", Where: "estado = $1", Args: []any{sensor.StatusActive}}},
		{&sum.TotalAlerts, Counter{Table: "alertas"}},
		{&sum.PendingAlerts, Counter{Table: "alertas", Where: "estado = $1", Args: []any{alert.StatusPending}}},
		{&sum.CriticalAlerts, Counter{Table: "alertas", Where: "nivel_urgencia = $1", Args: []any{alert.UrgencyCritical}}},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, item := range counts {
		g.Go(func() error {
			n, err := s.repo.Count(gctx, item.c)
			if err != nil {
				return err
			}
			*item.dst = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}

	return &sum, nil
}

// RecentAlerts returns the newest pending alerts.
func (s *Service) RecentAlerts(ctx context.Context) ([]alert.Alert, error) {
	return s.alerts.List(ctx, alert.ListParams{
		Status: alert.StatusPending,
		Limit:  recentAlertsLimit,
	})
}

// SensorStatus groups sensors by type. Types with no sensors are absent.
func (s *Service) SensorStatus(ctx context.Context) (map[string]TypeStatus, error) {
	rows, err := s.repo.SensorStatus(ctx)
	if err != nil {
		return nil, err
	}

	byType := make(map[string]TypeStatus, len(rows))
	for _, row := range rows {
		byType[row.Type] = TypeStatus{
			Total:       row.Total,
			Active:      row.Active,
			Inactive:    row.Inactive,
			Maintenance: row.Maintenance,
		}
	}

	return byType, nil
}
