// AngelaMos | 2026
// entity.go

package plot

import (
	"time"
)

type Plot struct {
	ID            int64     `db:"id_parcela"`
	Name          string    `db:"nombre"`
	Location      string    `db:"ubicacion"`
	AreaM2        float64   `db:"area_m2"`
	CropType      string    `db:"tipo_cultivo"`
	Active        bool      `db:"activa"`
	CreatedAt     time.Time `db:"fecha_creacion"`
	ResponsibleID int64     `db:"id_usuario_responsable"`

	ResponsibleName string `db:"usuario_nombre"`
	SensorCount     int    `db:"-"`
}

const (
	StatusActive   = "activa"
	StatusInactive = "inactiva"
)
