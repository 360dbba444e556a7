package potability

import (
	"errors"
	"fmt"

	"github.com/abhisek/aquacheck/internal/measurement"
)

// Kind classifies the notice shown after a form submission.
type Kind string

const (
	KindInputError Kind = "input-error"
	KindOutOfRange Kind = "out-of-range"
	KindSafe       Kind = "safe"
	KindUnsafe     Kind = "unsafe"
)

// Outcome is the result of assessing one submission, ready to be shown
// and spoken.
type Outcome struct {
	Kind Kind `json:"kind"`

	// Field is set for input errors and out-of-range results.
	Field string `json:"field,omitempty"`

	// Violation describes the offending value for KindOutOfRange.
	Violation *Violation `json:"violation,omitempty"`

	// Verdict is set for KindSafe and KindUnsafe.
	Verdict *Verdict `json:"verdict,omitempty"`

	// Record is set whenever parsing succeeded.
	Record *measurement.Record `json:"-"`

	Title   string `json:"title"`
	Message string `json:"message"`
	Spoken  string `json:"spoken"`
}

// Violation is the value and bounds of an out-of-range field.
type Violation struct {
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Drinkable reports whether the outcome is a safe verdict.
func (o Outcome) Drinkable() bool {
	return o.Kind == KindSafe
}

func inputErrorOutcome(err error) Outcome {
	o := Outcome{
		Kind:    KindInputError,
		Title:   "Error",
		Message: "Please enter valid numeric values!",
		Spoken:  "Please enter valid numbers",
	}
	var ie *measurement.InputError
	if errors.As(err, &ie) {
		o.Field = ie.Field.String()
	}
	return o
}

func outOfRangeOutcome(r measurement.Record, re *measurement.RangeError) Outcome {
	return Outcome{
		Kind:  KindOutOfRange,
		Field: re.Field.String(),
		Violation: &Violation{
			Value: re.Value,
			Min:   re.Range.Min,
			Max:   re.Range.Max,
		},
		Record: &r,
		Title:  "Unsafe Water",
		Message: fmt.Sprintf("%s = %s is outside the safe range (%s).\nWater is NOT safe to drink!",
			re.Field, measurement.FormatValue(re.Value), re.Range),
		Spoken: fmt.Sprintf("%s is out of range. Water is not safe to drink.", re.Field),
	}
}

func verdictOutcome(r measurement.Record, v Verdict) Outcome {
	kind := KindUnsafe
	if v == Safe {
		kind = KindSafe
	}
	return Outcome{
		Kind:    kind,
		Verdict: &v,
		Record:  &r,
		Title:   "Prediction",
		Message: "All parameters are within range.\nWater is: " + v.Label(),
		Spoken:  "Water is " + v.Label(),
	}
}
