// AngelaMos | 2026
// dto.go

package sensor

import (
	"time"

	"github.com/agrourbano/farmdash/internal/filter"
)

type CreateSensorRequest struct {
	Name     string `json:"nombre"      validate:"required,notblank,max=100"`
	Type     string `json:"tipo_sensor" validate:"required,oneof=humedad temperatura luz"`
	Location string `json:"ubicacion"   validate:"max=200"`
	Status   string `json:"estado"      validate:"omitempty,oneof=activo inactivo mantenimiento"`
	PlotID   int64  `json:"id_parcela"  validate:"required,gt=0"`
}

type UpdateSensorRequest struct {
	Name     *string `json:"nombre,omitempty"      validate:"omitempty,notblank,max=100"`
	Type     *string `json:"tipo_sensor,omitempty" validate:"omitempty,oneof=humedad temperatura luz"`
	Location *string `json:"ubicacion,omitempty"   validate:"omitempty,max=200"`
	Status   *string `json:"estado,omitempty"      validate:"omitempty,oneof=activo inactivo mantenimiento"`
	PlotID   *int64  `json:"id_parcela,omitempty"  validate:"omitempty,gt=0"`
}

type SensorResponse struct {
	ID                int64     `json:"id_sensor"`
	Name              string    `json:"nombre"`
	Type              string    `json:"tipo_sensor"`
	Location          string    `json:"ubicacion"`
	Status            string    `json:"estado"`
	InstalledAt       time.Time `json:"fecha_instalacion"`
	PlotID            int64     `json:"id_parcela"`
	PlotName          string    `json:"parcela_nombre"`
	TotalMeasurements int       `json:"total_mediciones"`
}

type Patch struct {
	Name     *string
	Type     *string
	Location *string
	Status   *string
	PlotID   *int64
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

type ListParams struct {
	Search string `validate:"omitempty,max=100"`
	Status string `validate:"omitempty,oneof=activo inactivo mantenimiento"`
	Type   string `validate:"omitempty,oneof=humedad temperatura luz"`
	PlotID *int64
}

func ListParamsFromFilter(s filter.Criteria) ListParams {
	return ListParams{
		Search: s.Search,
		Status: s.Status,
		Type:   s.Type,
		PlotID: s.Parcela,
	}
}

func ToSensorResponse(s *Sensor) SensorResponse {
	return SensorResponse{
		ID:                s.ID,
		Name:              s.Name,
		Type:              s.Type,
		Location:          s.Location,
		Status:            s.Status,
		InstalledAt:       s.InstalledAt,
		PlotID:            s.PlotID,
		PlotName:          s.PlotName,
		TotalMeasurements: s.MeasurementCount,
	}
}

func ToSensorResponseList(sensors []Sensor) []SensorResponse {
	responses := make([]SensorResponse, 0, len(sensors))
	for i := range sensors {
		responses = append(responses, ToSensorResponse(&sensors[i]))
	}
	return responses
}
