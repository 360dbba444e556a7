package measurement

import "strconv"

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the interval, bounds included.
func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

// String renders the interval as "min-max".
func (r Range) String() string {
	return formatBound(r.Min) + "-" + formatBound(r.Max)
}

// ranges is the safe interval for each field, indexed by Field.
var ranges = [NumFields]Range{
	PH:              {6.5, 8.5},
	Hardness:        {50, 300},
	Solids:          {0, 5000},
	Chloramines:     {0, 4},
	Sulfate:         {0, 400},
	Conductivity:    {0, 600},
	OrganicCarbon:   {0, 5},
	Trihalomethanes: {0, 80},
	Turbidity:       {0, 5},
}

// RangeOf returns the safe interval for f.
func RangeOf(f Field) Range {
	return ranges[f]
}

// Ranges returns a copy of the range table in declared field order.
func Ranges() [NumFields]Range {
	return ranges
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatValue renders a measured value the way it is reported to users:
// whole numbers keep a trailing ".0" so 9 reads as "9.0".
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	for _, c := range s {
		if c == '.' {
			return s
		}
	}
	return s + ".0"
}
