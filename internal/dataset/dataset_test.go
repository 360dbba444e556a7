package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/aquacheck/internal/measurement"
)

const header = "ph,Hardness,Solids,Chloramines,Sulfate,Conductivity,Organic_carbon,Trihalomethanes,Turbidity,Potability\n"

func TestRead_MeanImputation(t *testing.T) {
	csv := header +
		"7,100,1000,1,100,100,1,10,1,1\n" +
		",200,2000,2,,200,2,20,2,0\n" +
		"9,300,3000,3,300,300,3,NaN,3,1\n"

	ds, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, 3, ds.Imputed)

	assert.Equal(t, 8.0, ds.X[1][measurement.PH])
	assert.Equal(t, 200.0, ds.X[1][measurement.Sulfate])
	assert.Equal(t, 15.0, ds.X[2][measurement.Trihalomethanes])
	assert.Equal(t, []int{1, 0, 1}, ds.Y)
	assert.Equal(t, 2, ds.Positives())
}

func TestRead_ColumnOrderIndependent(t *testing.T) {
	csv := "Potability,Turbidity,Trihalomethanes,Organic Carbon,Conductivity,Sulfate,Chloramines,Solids,Hardness,pH\n" +
		"1,9,8,7,6,5,4,3,2,1\n"

	ds, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, ds.X[0])
	assert.Equal(t, 1, ds.Y[0])
}

func TestRead_AllMissingColumnUsesZero(t *testing.T) {
	csv := header +
		",1,1,1,1,1,1,1,1,0\n" +
		",2,2,2,2,2,2,2,2,1\n"

	ds, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 0.0, ds.X[0][measurement.PH])
	assert.Equal(t, 0.0, ds.X[1][measurement.PH])
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "", "empty file"},
		{"header only", header, "no data rows"},
		{"missing label", "ph,Hardness,Solids,Chloramines,Sulfate,Conductivity,Organic_carbon,Trihalomethanes,Turbidity\n1,1,1,1,1,1,1,1,1\n", "Potability"},
		{"missing feature", "ph,Hardness,Solids,Chloramines,Sulfate,Conductivity,Trihalomethanes,Turbidity,Potability\n", "Organic Carbon"},
		{"bad label", header + "1,1,1,1,1,1,1,1,1,2\n", "must be 0 or 1"},
		{"bad cell", header + "1,x,1,1,1,1,1,1,1,0\n", "not a number"},
		{"negative infinity", header + "-Inf,150,1,1,1,1,1,1,1,0\n", "not a finite number"},
		{"infinity", header + "7,inf,1,1,1,1,1,1,1,0\n", "not a finite number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRead_MissingColumnSentinel(t *testing.T) {
	_, err := Read(strings.NewReader("ph,Potability\n7,1\n"))
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestLoad_Sample(t *testing.T) {
	ds, err := Load("testdata/water_sample.csv")
	require.NoError(t, err)
	assert.Equal(t, 10, ds.Len())
	assert.Equal(t, 5, ds.Imputed)
	assert.Equal(t, 4, ds.Positives())
	for _, row := range ds.X {
		assert.Len(t, row, measurement.NumFields)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load("testdata/does_not_exist.csv")
	assert.Error(t, err)
}

func TestSplit_Deterministic(t *testing.T) {
	ds, err := Load("testdata/water_sample.csv")
	require.NoError(t, err)

	train1, test1 := Split(ds, 0.2, 42)
	train2, test2 := Split(ds, 0.2, 42)

	assert.Equal(t, 8, train1.Len())
	assert.Equal(t, 2, test1.Len())
	assert.Equal(t, train1.X, train2.X)
	assert.Equal(t, test1.Y, test2.Y)
}

func TestSplit_PartitionsAllRows(t *testing.T) {
	ds := &Dataset{}
	for i := range 50 {
		ds.X = append(ds.X, []float64{float64(i)})
		ds.Y = append(ds.Y, i%2)
	}

	train, test := Split(ds, 0.2, 7)
	require.Equal(t, 40, train.Len())
	require.Equal(t, 10, test.Len())

	seen := make(map[float64]bool)
	for _, row := range append(train.X, test.X...) {
		seen[row[0]] = true
	}
	assert.Len(t, seen, 50)
}
