package model

import (
	"encoding/json"
	"fmt"
)

// Percent is a ratio expressed in percent. Valid is false when the
// denominator was zero, in which case the ratio is not applicable.
type Percent struct {
	Value float64
	Valid bool
}

// PercentOf returns part/whole*100 clamped to [0, 100]. A non-positive
// whole yields an invalid Percent.
func PercentOf(part, whole int64) Percent {
	if whole <= 0 {
		return Percent{}
	}
	v := float64(part) / float64(whole) * 100
	switch {
	case v < 0:
		v = 0
	case v > 100:
		v = 100
	}
	return Percent{Value: v, Valid: true}
}

// Fraction returns the value in [0, 1], or 0 when invalid.
func (p Percent) Fraction() float64 {
	if !p.Valid {
		return 0
	}
	return p.Value / 100
}

func (p Percent) String() string {
	if !p.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", p.Value)
}

// MarshalJSON encodes an invalid Percent as null.
func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}
