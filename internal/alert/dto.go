// AngelaMos | 2026
// dto.go

package alert

import (
	"time"

	"github.com/agrourbano/farmdash/internal/filter"
)

type CreateAlertRequest struct {
	Type       string     `json:"tipo_alerta"      validate:"required,notblank,max=100"`
	Message    string     `json:"mensaje"          validate:"required,notblank,max=1000"`
	Urgency    string     `json:"nivel_urgencia"   validate:"omitempty,oneof=bajo medio alto critico"`
	Status     string     `json:"estado"           validate:"omitempty,oneof=pendiente en_proceso resuelto"`
	ResolvedAt *time.Time `json:"fecha_resolucion"`
	PlotID     int64      `json:"id_parcela"       validate:"required,gt=0"`
	SensorID   int64      `json:"id_sensor"        validate:"required,gt=0"`
}

type UpdateAlertRequest struct {
	Type       *string    `json:"tipo_alerta,omitempty"      validate:"omitempty,notblank,max=100"`
	Message    *string    `json:"mensaje,omitempty"          validate:"omitempty,notblank,max=1000"`
	Urgency    *string    `json:"nivel_urgencia,omitempty"   validate:"omitempty,oneof=bajo medio alto critico"`
	Status     *string    `json:"estado,omitempty"           validate:"omitempty,oneof=pendiente en_proceso resuelto"`
	ResolvedAt *time.Time `json:"fecha_resolucion,omitempty"`
	PlotID     *int64     `json:"id_parcela,omitempty"       validate:"omitempty,gt=0"`
	SensorID   *int64     `json:"id_sensor,omitempty"        validate:"omitempty,gt=0"`
}

type AlertResponse struct {
	ID          int64      `json:"id_alerta"`
	Type        string     `json:"tipo_alerta"`
	Message     string     `json:"mensaje"`
	Urgency     string     `json:"nivel_urgencia"`
	GeneratedAt time.Time  `json:"fecha_generacion"`
	ResolvedAt  *time.Time `json:"fecha_resolucion"`
	Status      string     `json:"estado"`
	PlotID      int64      `json:"id_parcela"`
	SensorID    int64      `json:"id_sensor"`
	PlotName    string     `json:"parcela_nombre"`
	SensorName  string     `json:"sensor_nombre"`
	SensorType  string     `json:"tipo_sensor"`
}

// resolution says what an update does to fecha_resolucion beyond an
// explicit value.
type resolution int

const (
	resolutionKeep resolution = iota
	resolutionStamp
	resolutionClear
)

type Patch struct {
	Type       *string
	Message    *string
	Urgency    *string
	Status     *string
	ResolvedAt *time.Time
	PlotID     *int64
	SensorID   *int64

	resolution resolution
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

type ListParams struct {
	Search   string `validate:"omitempty,max=100"`
	Status   string `validate:"omitempty,oneof=pendiente en_proceso resuelto"`
	Urgency  string `validate:"omitempty,oneof=bajo medio alto critico"`
	PlotID   *int64
	SensorID *int64
	From     *time.Time
	To       *time.Time

	// Limit caps the result when positive. It is not read from the query
	// string.
	Limit int
}

func ListParamsFromFilter(s filter.Criteria) ListParams {
	return ListParams{
		Search:   s.Search,
		Status:   s.Status,
		Urgency:  s.NivelUrgencia,
		PlotID:   s.Parcela,
		SensorID: s.Sensor,
		From:     s.DateFrom,
		To:       s.DateTo,
	}
}

func ToAlertResponse(a *Alert) AlertResponse {
	return AlertResponse{
		ID:          a.ID,
		Type:        a.Type,
		Message:     a.Message,
		Urgency:     a.Urgency,
		GeneratedAt: a.GeneratedAt,
		ResolvedAt:  a.ResolvedAt,
		Status:      a.Status,
		PlotID:      a.PlotID,
		SensorID:    a.SensorID,
		PlotName:    a.PlotName,
		SensorName:  a.SensorName,
		SensorType:  a.SensorType,
	}
}

func ToAlertResponseList(alerts []Alert) []AlertResponse {
	responses := make([]AlertResponse, 0, len(alerts))
	for i := range alerts {
		responses = append(responses, ToAlertResponse(&alerts[i]))
	}
	return responses
}
