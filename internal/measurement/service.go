// AngelaMos | 2026
// service.go

package measurement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agrourbano/farmdash/internal/core"
	"github.com/agrourbano/farmdash/internal/sensor"
)

// SensorReader resolves the sensor a reading belongs to.
type SensorReader interface {
	GetByID(ctx context.Context, id int64) (*sensor.Sensor, error)
}

type Service struct {
	repo    Repository
	sensors SensorReader
}

func NewService(repo Repository, sensors SensorReader) *Service {
	return &Service{repo: repo, sensors: sensors}
}

func (s *Service) List(
	ctx context.Context,
	params ListParams,
) ([]Measurement, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, id int64) (*Measurement, error) {
	return s.repo.GetByID(ctx, id)
}

// Create fills in the sensor type's default unit when the reading has
// none.
func (s *Service) Create(
	ctx context.Context,
	req CreateMeasurementRequest,
) (*Measurement, error) {
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		src, err := s.sensors.GetByID(ctx, req.SensorID)
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("create measurement: %w", core.ErrInvalidReference)
		}
		if err != nil {
			return nil, fmt.Errorf("create measurement: %w", err)
		}
		unit = DefaultUnit(src.Type)
	}

	m := &Measurement{
		Value:    *req.Value,
		Unit:     unit,
		SensorID: req.SensorID,
	}
	if req.MeasuredAt != nil {
		m.MeasuredAt = *req.MeasuredAt
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, m.ID)
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdateMeasurementRequest,
) (*Measurement, error) {
	return s.repo.Update(ctx, id, Patch{
		Value:      req.Value,
		Unit:       req.Unit,
		MeasuredAt: req.MeasuredAt,
		SensorID:   req.SensorID,
	})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
