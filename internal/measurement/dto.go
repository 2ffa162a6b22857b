// AngelaMos | 2026
// dto.go

package measurement

import (
	"time"

	"github.com/agrourbano/farmdash/internal/filter"
)

type CreateMeasurementRequest struct {
	Value      *float64   `json:"valor"          validate:"required"`
	Unit       string     `json:"unidad"         validate:"max=20"`
	MeasuredAt *time.Time `json:"fecha_medicion"`
	SensorID   int64      `json:"id_sensor"      validate:"required,gt=0"`
}

type UpdateMeasurementRequest struct {
	Value      *float64   `json:"valor,omitempty"`
	Unit       *string    `json:"unidad,omitempty"         validate:"omitempty,max=20"`
	MeasuredAt *time.Time `json:"fecha_medicion,omitempty"`
	SensorID   *int64     `json:"id_sensor,omitempty"      validate:"omitempty,gt=0"`
}

type MeasurementResponse struct {
	ID         int64     `json:"id_medicion"`
	Value      float64   `json:"valor"`
	Unit       string    `json:"unidad"`
	MeasuredAt time.Time `json:"fecha_medicion"`
	SensorID   int64     `json:"id_sensor"`
	SensorName string    `json:"sensor_nombre"`
	SensorType string    `json:"tipo_sensor"`
	PlotName   string    `json:"parcela_nombre"`
}

type Patch struct {
	Value      *float64
	Unit       *string
	MeasuredAt *time.Time
	SensorID   *int64
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

type ListParams struct {
	SensorID *int64
	PlotID   *int64
	From     *time.Time
	To       *time.Time
}

func ListParamsFromFilter(s filter.Criteria) ListParams {
	return ListParams{
		SensorID: s.Sensor,
		PlotID:   s.Parcela,
		From:     s.DateFrom,
		To:       s.DateTo,
	}
}

func ToMeasurementResponse(m *Measurement) MeasurementResponse {
	return MeasurementResponse{
		ID:         m.ID,
		Value:      m.Value,
		Unit:       m.Unit,
		MeasuredAt: m.MeasuredAt,
		SensorID:   m.SensorID,
		SensorName: m.SensorName,
		SensorType: m.SensorType,
		PlotName:   m.PlotName,
	}
}

func ToMeasurementResponseList(items []Measurement) []MeasurementResponse {
	responses := make([]MeasurementResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToMeasurementResponse(&items[i]))
	}
	return responses
}
