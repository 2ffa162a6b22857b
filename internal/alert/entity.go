// AngelaMos | 2026
// entity.go

package alert

import (
	"time"
)

type Alert struct {
	ID          int64      `db:"id_alerta"`
	Type        string     `db:"tipo_alerta"`
	Message     string     `db:"mensaje"`
	Urgency     string     `db:"nivel_urgencia"`
	GeneratedAt time.Time  `db:"fecha_generacion"`
	ResolvedAt  *time.Time `db:"fecha_resolucion"`
	Status      string     `db:"estado"`
	PlotID      int64      `db:"id_parcela"`
	SensorID    int64      `db:"id_sensor"`

	PlotName   string `db:"parcela_nombre"`
	SensorName string `db:"sensor_nombre"`
	SensorType string `db:"tipo_sensor"`
}

const (
	StatusPending    = "pendiente"
	StatusInProgress = "en_proceso"
	StatusResolved   = "resuelto"
)

const (
	UrgencyLow      = "bajo"
	UrgencyMedium   = "medio"
	UrgencyHigh     = "alto"
	UrgencyCritical = "critico"
)

func (a *Alert) IsResolved() bool {
	return a.Status == StatusResolved
}
