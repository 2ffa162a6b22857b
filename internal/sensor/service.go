// AngelaMos | 2026
// service.go

package sensor

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Sensor, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, id int64) (*Sensor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	req CreateSensorRequest,
) (*Sensor, error) {
	status := req.Status
	if status == "" {
		status = StatusActive
	}

	sensor := &Sensor{
		Name:     req.Name,
		Type:     req.Type,
		Location: req.Location,
		Status:   status,
		PlotID:   req.PlotID,
	}

	if err := s.repo.Create(ctx, sensor); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, sensor.ID)
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdateSensorRequest,
) (*Sensor, error) {
	return s.repo.Update(ctx, id, Patch{
		Name:     req.Name,
		Type:     req.Type,
		Location: req.Location,
		Status:   req.Status,
		PlotID:   req.PlotID,
	})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
