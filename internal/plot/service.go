// AngelaMos | 2026
// service.go

package plot

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Plot, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, id int64) (*Plot, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a plot and returns it re-read with its responsible user's
// name. New plots are active unless the caller says otherwise.
func (s *Service) Create(
	ctx context.Context,
	req CreatePlotRequest,
) (*Plot, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	plot := &Plot{
		Name:          req.Name,
		Location:      req.Location,
		AreaM2:        req.AreaM2,
		CropType:      req.CropType,
		Active:        active,
		ResponsibleID: req.ResponsibleID,
	}

	if err := s.repo.Create(ctx, plot); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, plot.ID)
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdatePlotRequest,
) (*Plot, error) {
	return s.repo.Update(ctx, id, Patch{
		Name:          req.Name,
		Location:      req.Location,
		AreaM2:        req.AreaM2,
		CropType:      req.CropType,
		Active:        req.Active,
		ResponsibleID: req.ResponsibleID,
	})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
