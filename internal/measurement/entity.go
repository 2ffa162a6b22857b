// AngelaMos | 2026
// entity.go

package measurement

import (
	"time"

	"github.com/agrourbano/farmdash/internal/sensor"
)

type Measurement struct {
	ID         int64     `db:"id_medicion"`
	Value      float64   `db:"valor"`
	Unit       string    `db:"unidad"`
	MeasuredAt time.Time `db:"fecha_medicion"`
	SensorID   int64     `db:"id_sensor"`

	SensorName string `db:"sensor_nombre"`
	SensorType string `db:"tipo_sensor"`
	PlotName   string `db:"parcela_nombre"`
}

var defaultUnits = map[string]string{
	sensor.TypeHumidity:    "%",
	sensor.TypeTemperature: "°C",
	sensor.TypeLight:       "lux",
}

// DefaultUnit is the unit recorded when a reading arrives without one.
// Unknown sensor types have no default.
func DefaultUnit(sensorType string) string {
	return defaultUnits[sensorType]
}
