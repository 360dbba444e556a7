package measurement

import (
	"math"
	"strconv"
	"strings"
)

// Record holds one set of measurements, indexed by Field.
type Record [NumFields]float64

// Get returns the value of f.
func (r Record) Get(f Field) float64 {
	return r[f]
}

// Vector returns the values as a feature vector in training column order.
func (r Record) Vector() []float64 {
	out := make([]float64, NumFields)
	copy(out, r[:])
	return out
}

// Inputs is the raw text of a submitted form, indexed by Field.
type Inputs [NumFields]string

// Parse converts form text into a Record. Surrounding whitespace is
// ignored. The first entry that is not a finite number is reported as an
// *InputError; no range checking happens here.
func Parse(in Inputs) (Record, error) {
	var r Record
	for _, f := range Fields() {
		text := strings.TrimSpace(in[f])
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Record{}, &InputError{Field: f, Text: in[f]}
		}
		r[f] = v
	}
	return r, nil
}

// Validate checks each field against its safe interval in declared order
// and returns a *RangeError for the first violation. Later fields are not
// inspected once a violation is found.
func Validate(r Record) error {
	for _, f := range Fields() {
		rg := ranges[f]
		if !rg.Contains(r[f]) {
			return &RangeError{Field: f, Value: r[f], Range: rg}
		}
	}
	return nil
}
