package measurement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioInputs() Inputs {
	return Inputs{"7.0", "150", "2000", "2", "200", "300", "2", "40", "2"}
}

func TestFieldOrder(t *testing.T) {
	want := []string{
		"pH", "Hardness", "Solids", "Chloramines", "Sulfate",
		"Conductivity", "Organic Carbon", "Trihalomethanes", "Turbidity",
	}
	fields := Fields()
	require.Len(t, fields, NumFields)
	for i, f := range fields {
		assert.Equal(t, want[i], f.String())
	}
	assert.Equal(t, PH, fields[0])
	assert.Equal(t, Turbidity, fields[NumFields-1])
}

func TestFieldByName(t *testing.T) {
	tests := []struct {
		name string
		want Field
		ok   bool
	}{
		{"pH", PH, true},
		{"ph", PH, true},
		{"Organic_carbon", OrganicCarbon, true},
		{"organic carbon", OrganicCarbon, true},
		{"organic-carbon", OrganicCarbon, true},
		{" Turbidity ", Turbidity, true},
		{"Potability", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FieldByName(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFieldKey(t *testing.T) {
	assert.Equal(t, "ph", PH.Key())
	assert.Equal(t, "organic_carbon", OrganicCarbon.Key())
}

func TestParse_Scenario(t *testing.T) {
	r, err := Parse(scenarioInputs())
	require.NoError(t, err)
	assert.Equal(t, 7.0, r.Get(PH))
	assert.Equal(t, 2000.0, r.Get(Solids))
	assert.Equal(t, 2.0, r.Get(Turbidity))
	assert.NoError(t, Validate(r))
}

func TestParse_NonNumericInEachField(t *testing.T) {
	for _, f := range Fields() {
		t.Run(f.String(), func(t *testing.T) {
			in := scenarioInputs()
			in[f] = "abc"
			_, err := Parse(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.False(t, errors.Is(err, ErrOutOfRange))

			var ie *InputError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, f, ie.Field)
			assert.Equal(t, "abc", ie.Text)
		})
	}
}

func TestParse_RejectsSpecialValues(t *testing.T) {
	for _, text := range []string{"", "  ", "NaN", "inf", "-Inf", "7,0"} {
		in := scenarioInputs()
		in[Sulfate] = text
		_, err := Parse(in)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidInput", text, err)
		}
	}
}

func TestParse_TrimsWhitespace(t *testing.T) {
	in := scenarioInputs()
	in[PH] = "  7.25\t"
	r, err := Parse(in)
	require.NoError(t, err)
	assert.Equal(t, 7.25, r.Get(PH))
}

func TestValidate_BoundsInclusive(t *testing.T) {
	base, err := Parse(scenarioInputs())
	require.NoError(t, err)

	for _, f := range Fields() {
		rg := RangeOf(f)
		t.Run(f.String(), func(t *testing.T) {
			r := base
			r[f] = rg.Min
			assert.NoError(t, Validate(r), "min should be accepted")

			r[f] = rg.Max
			assert.NoError(t, Validate(r), "max should be accepted")

			for _, v := range []float64{rg.Min - 1, rg.Max + 1} {
				r[f] = v
				err := Validate(r)
				require.Error(t, err)
				var re *RangeError
				require.True(t, errors.As(err, &re))
				assert.Equal(t, f, re.Field)
				assert.Equal(t, v, re.Value)
				assert.Equal(t, rg, re.Range)
				assert.True(t, errors.Is(err, ErrOutOfRange))
			}
		})
	}
}

func TestValidate_FirstViolationWins(t *testing.T) {
	r, err := Parse(scenarioInputs())
	require.NoError(t, err)
	r[Sulfate] = 1000
	r[Hardness] = 10
	r[Turbidity] = 99

	var re *RangeError
	require.True(t, errors.As(Validate(r), &re))
	assert.Equal(t, Hardness, re.Field)
}

func TestValidate_PH9(t *testing.T) {
	in := scenarioInputs()
	in[PH] = "9.0"
	r, err := Parse(in)
	require.NoError(t, err)

	err = Validate(r)
	var re *RangeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, PH, re.Field)
	assert.Equal(t, 9.0, re.Value)
	assert.Equal(t, Range{Min: 6.5, Max: 8.5}, re.Range)
	assert.Equal(t, "out of range: pH = 9.0 is outside the safe range (6.5-8.5)", err.Error())
}

func TestFormatValue(t *testing.T) {
	tests := map[float64]string{
		9:      "9.0",
		9.5:    "9.5",
		-1:     "-1.0",
		5000.1: "5000.1",
	}
	for v, want := range tests {
		if got := FormatValue(v); got != want {
			t.Errorf("FormatValue(%v) = %q, want %q", v, got, want)
		}
	}
}

func TestRangeString(t *testing.T) {
	assert.Equal(t, "50-300", RangeOf(Hardness).String())
	assert.Equal(t, "6.5-8.5", RangeOf(PH).String())
}
