// AngelaMos | 2026
// filter.go

// Package filter turns sparse list filters from a query string into a
// structured Criteria, and a Criteria into AND-combined SQL predicates.
package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agrourbano/farmdash/internal/core"
)

const (
	KeySearch        = "search"
	KeyStatus        = "status"
	KeyType          = "type"
	KeyRol           = "rol"
	KeyParcela       = "parcela"
	KeyResponsable   = "responsable"
	KeySensor        = "sensor"
	KeyNivelUrgencia = "nivel_urgencia"
	KeyDateFrom      = "dateFrom"
	KeyDateTo        = "dateTo"
)

const dateOnly = "2006-01-02"

// Criteria holds the filters a caller actually supplied. Zero values and nil
// pointers mean "not filtered".
type Criteria struct {
	Search        string
	Status        string
	Type          string
	Rol           string
	NivelUrgencia string
	Parcela       *int64
	Responsable   *int64
	Sensor        *int64
	DateFrom      *time.Time
	DateTo        *time.Time
}

// Compose reads the recognised keys from q. Unknown keys and blank values
// are dropped. A malformed id or date is an input error.
func Compose(q url.Values) (Criteria, error) {
	var s Criteria

	s.Search = value(q, KeySearch)
	s.Status = value(q, KeyStatus)
	s.Type = value(q, KeyType)
	s.Rol = value(q, KeyRol)
	s.NivelUrgencia = value(q, KeyNivelUrgencia)

	var err error
	if s.Parcela, err = parseID(q, KeyParcela); err != nil {
		return Criteria{}, err
	}
	if s.Responsable, err = parseID(q, KeyResponsable); err != nil {
		return Criteria{}, err
	}
	if s.Sensor, err = parseID(q, KeySensor); err != nil {
		return Criteria{}, err
	}
	if s.DateFrom, err = parseDate(q, KeyDateFrom, false); err != nil {
		return Criteria{}, err
	}
	if s.DateTo, err = parseDate(q, KeyDateTo, true); err != nil {
		return Criteria{}, err
	}

	if s.DateFrom != nil && s.DateTo != nil && s.DateFrom.After(*s.DateTo) {
		return Criteria{}, fmt.Errorf("%s is after %s: %w", KeyDateFrom, KeyDateTo, core.ErrInvalidInput)
	}

	return s, nil
}

func (s Criteria) IsEmpty() bool {
	return s == Criteria{}
}

func value(q url.Values, key string) string {
	return strings.TrimSpace(q.Get(key))
}

func parseID(q url.Values, key string) (*int64, error) {
	raw := value(q, key)
	if raw == "" {
		return nil, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%s must be a positive integer: %w", key, core.ErrInvalidInput)
	}

	return &id, nil
}

// parseDate accepts RFC3339 or a bare date. A bare date used as an upper
// bound covers the whole day.
func parseDate(q url.Values, key string, upper bool) (*time.Time, error) {
	raw := value(q, key)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}

	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be RFC3339 or YYYY-MM-DD: %w", key, core.ErrInvalidInput)
	}

	if upper {
		t = t.AddDate(0, 0, 1).Add(-time.Microsecond)
	}

	return &t, nil
}
