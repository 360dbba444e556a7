package measurement

import "strings"

// Field identifies one of the nine water-quality measurements.
// The declared order is the training column order and the order in
// which ranges are checked.
type Field int

const (
	PH Field = iota
	Hardness
	Solids
	Chloramines
	Sulfate
	Conductivity
	OrganicCarbon
	Trihalomethanes
	Turbidity
)

// NumFields is the number of measurements in a Record.
const NumFields = 9

var fieldNames = [NumFields]string{
	"pH",
	"Hardness",
	"Solids",
	"Chloramines",
	"Sulfate",
	"Conductivity",
	"Organic Carbon",
	"Trihalomethanes",
	"Turbidity",
}

var fieldUnits = [NumFields]string{
	"",
	"mg/L",
	"ppm",
	"ppm",
	"mg/L",
	"μS/cm",
	"ppm",
	"μg/L",
	"NTU",
}

// Fields returns all fields in declared order.
func Fields() []Field {
	out := make([]Field, NumFields)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// String returns the display name, e.g. "Organic Carbon".
func (f Field) String() string {
	if !f.Valid() {
		return "unknown"
	}
	return fieldNames[f]
}

// Unit returns the measurement unit shown next to form inputs.
func (f Field) Unit() string {
	if !f.Valid() {
		return ""
	}
	return fieldUnits[f]
}

// Key returns the snake_case identifier used in JSON and CLI flags.
func (f Field) Key() string {
	return strings.ReplaceAll(strings.ToLower(f.String()), " ", "_")
}

// Valid reports whether f is one of the nine known fields.
func (f Field) Valid() bool {
	return f >= 0 && int(f) < NumFields
}

// FieldByName resolves a display name, key or dataset column header.
// Matching ignores case, spaces, underscores and hyphens, so "ph",
// "Organic_carbon" and "organic carbon" all resolve.
func FieldByName(name string) (Field, bool) {
	want := normalize(name)
	if want == "" {
		return 0, false
	}
	for i, n := range fieldNames {
		if normalize(n) == want {
			return Field(i), true
		}
	}
	return 0, false
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
