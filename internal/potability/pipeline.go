package potability

import (
	"errors"
	"fmt"

	"github.com/abhisek/aquacheck/internal/measurement"
)

// Classifier predicts a class in {0, 1} for a feature vector laid out in
// measurement.Fields() order.
type Classifier interface {
	Predict(features []float64) int
}

// Pipeline validates measurements and asks the classifier for a verdict.
// It holds no mutable state and is safe for concurrent use as long as the
// classifier is.
type Pipeline struct {
	clf Classifier
}

// NewPipeline creates a Pipeline around a trained classifier.
func NewPipeline(clf Classifier) *Pipeline {
	return &Pipeline{clf: clf}
}

// PredictQuality returns the verdict for a record. The record must pass
// measurement.Validate; if it does not, the range error is returned and
// the classifier is not consulted.
func (p *Pipeline) PredictQuality(r measurement.Record) (Verdict, error) {
	if err := measurement.Validate(r); err != nil {
		return Unsafe, err
	}
	switch c := p.clf.Predict(r.Vector()); c {
	case 0:
		return Unsafe, nil
	case 1:
		return Safe, nil
	default:
		panic(fmt.Sprintf("potability: classifier returned class %d", c))
	}
}

// Assess runs a full form submission: parse, range check, then predict.
// Exactly one of the four outcome kinds is produced.
func (p *Pipeline) Assess(in measurement.Inputs) Outcome {
	r, err := measurement.Parse(in)
	if err != nil {
		return inputErrorOutcome(err)
	}

	if err := measurement.Validate(r); err != nil {
		var re *measurement.RangeError
		if errors.As(err, &re) {
			return outOfRangeOutcome(r, re)
		}
		return inputErrorOutcome(err)
	}

	v, err := p.PredictQuality(r)
	if err != nil {
		// Validate already passed above.
		panic(fmt.Sprintf("potability: validated record rejected: %v", err))
	}
	return verdictOutcome(r, v)
}
