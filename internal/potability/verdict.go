// Package potability turns validated measurements into a drinking-water
// verdict using a trained classifier.
package potability

// Verdict is the classifier's decision for one record.
type Verdict int

const (
	Unsafe Verdict = 0
	Safe   Verdict = 1
)

// String returns "safe" or "unsafe".
func (v Verdict) String() string {
	if v == Safe {
		return "safe"
	}
	return "unsafe"
}

// Label returns the phrase shown to users.
func (v Verdict) Label() string {
	if v == Safe {
		return "Safe to Drink"
	}
	return "Not Safe to Drink"
}

// MarshalText encodes the verdict as "safe" or "unsafe".
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
