// AngelaMos | 2026
// entity.go

package sensor

import (
	"time"
)

type Sensor struct {
	ID          int64     `db:"id_sensor"`
	Name        string    `db:"nombre"`
	Type        string    `db:"tipo_sensor"`
	Location    string    `db:"ubicacion"`
	Status      string    `db:"estado"`
	InstalledAt time.Time `db:"fecha_instalacion"`
	PlotID      int64     `db:"id_parcela"`

	PlotName         string `db:"parcela_nombre"`
	MeasurementCount int    `db:"-"`
}

const (
	TypeHumidity    = "humedad"
	TypeTemperature = "temperatura"
	TypeLight       = "luz"
)

const (
	StatusActive      = "activo"
	StatusInactive    = "inactivo"
	StatusMaintenance = "mantenimiento"
)

// Types lists every sensor type in display order.
var Types = []string{TypeHumidity, TypeTemperature, TypeLight}
