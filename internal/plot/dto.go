// AngelaMos | 2026
// dto.go

package plot

import (
	"time"

	"github.com/agrourbano/farmdash/internal/filter"
)

type CreatePlotRequest struct {
	Name          string  `json:"nombre"                 validate:"required,notblank,max=100"`
	Location      string  `json:"ubicacion"              validate:"required,notblank,max=200"`
	AreaM2        float64 `json:"area_m2"                validate:"gt=0"`
	CropType      string  `json:"tipo_cultivo"           validate:"required,notblank,max=100"`
	Active        *bool   `json:"activa"`
	ResponsibleID int64   `json:"id_usuario_responsable" validate:"required,gt=0"`
}

type UpdatePlotRequest struct {
	Name          *string  `json:"nombre,omitempty"                 validate:"omitempty,notblank,max=100"`
	Location      *string  `json:"ubicacion,omitempty"              validate:"omitempty,notblank,max=200"`
	AreaM2        *float64 `json:"area_m2,omitempty"                validate:"omitempty,gt=0"`
	CropType      *string  `json:"tipo_cultivo,omitempty"           validate:"omitempty,notblank,max=100"`
	Active        *bool    `json:"activa,omitempty"`
	ResponsibleID *int64   `json:"id_usuario_responsable,omitempty" validate:"omitempty,gt=0"`
}

type PlotResponse struct {
	ID              int64     `json:"id_parcela"`
	Name            string    `json:"nombre"`
	Location        string    `json:"ubicacion"`
	AreaM2          float64   `json:"area_m2"`
	CropType        string    `json:"tipo_cultivo"`
	Active          bool      `json:"activa"`
	CreatedAt       time.Time `json:"fecha_creacion"`
	ResponsibleID   int64     `json:"id_usuario_responsable"`
	ResponsibleName string    `json:"usuario_nombre"`
	TotalSensors    int       `json:"total_sensores"`
}

type Patch struct {
	Name          *string
	Location      *string
	AreaM2        *float64
	CropType      *string
	Active        *bool
	ResponsibleID *int64
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

type ListParams struct {
	Search      string `validate:"omitempty,max=100"`
	Status      string `validate:"omitempty,oneof=activa inactiva"`
	Responsible *int64
}

func ListParamsFromFilter(s filter.Criteria) ListParams {
	return ListParams{
		Search:      s.Search,
		Status:      s.Status,
		Responsible: s.Responsable,
	}
}

func ToPlotResponse(p *Plot) PlotResponse {
	return PlotResponse{
		ID:              p.ID,
		Name:            p.Name,
		Location:        p.Location,
		AreaM2:          p.AreaM2,
		CropType:        p.CropType,
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
		ResponsibleID:   p.ResponsibleID,
		ResponsibleName: p.ResponsibleName,
		TotalSensors:    p.SensorCount,
	}
}

func ToPlotResponseList(plots []Plot) []PlotResponse {
	responses := make([]PlotResponse, 0, len(plots))
	for i := range plots {
		responses = append(responses, ToPlotResponse(&plots[i]))
	}
	return responses
}
