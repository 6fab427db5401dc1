package model

import (
	"encoding/json"
	"math"
)

// Value is an indicator reading that may not be available yet (warm-up rows).
// A missing value is never represented as zero.
type Value struct {
	Float float64
	Valid bool
}

// Some wraps an available reading. NaN and Inf are treated as missing.
func Some(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{Float: f, Valid: true}
}

// None is the "not yet available" marker.
func None() Value {
	return Value{}
}

// Or returns the reading, or fallback when it is not available.
func (v Value) Or(fallback float64) float64 {
	if !v.Valid {
		return fallback
	}
	return v.Float
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}
