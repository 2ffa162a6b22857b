// AngelaMos | 2026
// service.go

package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/agrourbano/farmdash/internal/core"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Alert, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, id int64) (*Alert, error) {
	return s.repo.GetByID(ctx, id)
}

// Create defaults a new alert to pending and medium urgency. Only a
// resolved alert carries a resolution time.
func (s *Service) Create(
	ctx context.Context,
	req CreateAlertRequest,
) (*Alert, error) {
	alert := &Alert{
		Type:     req.Type,
		Message:  req.Message,
		Urgency:  req.Urgency,
		Status:   req.Status,
		PlotID:   req.PlotID,
		SensorID: req.SensorID,
	}
	if alert.Urgency == "" {
		alert.Urgency = UrgencyMedium
	}
	if alert.Status == "" {
		alert.Status = StatusPending
	}

	if alert.IsResolved() {
		resolvedAt := s.now().UTC()
		if req.ResolvedAt != nil {
			resolvedAt = *req.ResolvedAt
		}
		alert.ResolvedAt = &resolvedAt
	}

	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, alert.ID)
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdateAlertRequest,
) (*Alert, error) {
	patch := Patch{
		Type:       req.Type,
		Message:    req.Message,
		Urgency:    req.Urgency,
		Status:     req.Status,
		ResolvedAt: req.ResolvedAt,
		PlotID:     req.PlotID,
		SensorID:   req.SensorID,
	}

	if patch.Status != nil {
		switch {
		case *patch.Status != StatusResolved:
			patch.ResolvedAt = nil
			patch.resolution = resolutionClear
		case patch.ResolvedAt == nil:
			patch.resolution = resolutionStamp
		}
	}

	// fecha_resolucion alone may only correct an alert that is already resolved.
	if patch.Status == nil && patch.ResolvedAt != nil {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !current.IsResolved() {
			return nil, fmt.Errorf(
				"fecha_resolucion requires estado %s: %w", StatusResolved, core.ErrInvalidInput)
		}
	}

	return s.repo.Update(ctx, id, patch)
}

// Resolve marks an alert resolved. An alert that is already resolved
// keeps its original resolution time.
func (s *Service) Resolve(ctx context.Context, id int64) (*Alert, error) {
	status := StatusResolved
	return s.repo.Update(ctx, id, Patch{
		Status:     &status,
		resolution: resolutionStamp,
	})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
