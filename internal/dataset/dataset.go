// Package dataset loads the labeled water potability table used to train
// the classifier.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/abhisek/aquacheck/internal/measurement"
)

// LabelColumn is the header of the binary training label.
const LabelColumn = "Potability"

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// Dataset is a feature matrix with one binary label per row. Feature
// columns are in measurement.Fields() order regardless of file order.
type Dataset struct {
	X [][]float64
	Y []int

	// Imputed counts the cells that were missing and filled with the
	// column mean.
	Imputed int
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Y)
}

// Positives returns the number of rows labeled potable.
func (d *Dataset) Positives() int {
	n := 0
	for _, y := range d.Y {
		n += y
	}
	return n
}

// Load reads a CSV dataset from path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return ds, nil
}

// Read parses CSV with a header row. Empty and "NaN" feature cells are
// treated as missing and replaced with the mean of the present values in
// that column; a column with no values at all gets a mean of 0.
func Read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, labelCol, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		x       [][]float64
		y       []int
		missing [][measurement.NumFields]bool
		sums    [measurement.NumFields]float64
		counts  [measurement.NumFields]int
	)

	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		label, err := parseLabel(rec[labelCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := make([]float64, measurement.NumFields)
		var miss [measurement.NumFields]bool
		for f, c := range cols {
			v, ok, err := parseCell(rec[c])
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", line, header[c], err)
			}
			if !ok {
				miss[f] = true
				continue
			}
			row[f] = v
			sums[f] += v
			counts[f]++
		}

		x = append(x, row)
		y = append(y, label)
		missing = append(missing, miss)
	}

	if len(x) == 0 {
		return nil, fmt.Errorf("no data rows")
	}

	var means [measurement.NumFields]float64
	for f := range means {
		if counts[f] > 0 {
			means[f] = sums[f] / float64(counts[f])
		}
	}

	imputed := 0
	for i, miss := range missing {
		for f, m := range miss {
			if m {
				x[i][f] = means[f]
				imputed++
			}
		}
	}

	return &Dataset{X: x, Y: y, Imputed: imputed}, nil
}

// mapColumns returns, for each field, the index of its column in header,
// plus the index of the label column.
func mapColumns(header []string) ([measurement.NumFields]int, int, error) {
	var cols [measurement.NumFields]int
	var found [measurement.NumFields]bool
	labelCol := -1

	for i, h := range header {
		name := strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		if strings.EqualFold(name, LabelColumn) {
			labelCol = i
			continue
		}
		if f, ok := measurement.FieldByName(name); ok && !found[f] {
			cols[f] = i
			found[f] = true
		}
	}

	for _, f := range measurement.Fields() {
		if !found[f] {
			return cols, 0, fmt.Errorf("%w: %s", ErrMissingColumn, f)
		}
	}
	if labelCol < 0 {
		return cols, 0, fmt.Errorf("%w: %s", ErrMissingColumn, LabelColumn)
	}
	return cols, labelCol, nil
}

func parseCell(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "na") {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) {
		return 0, false, nil
	}
	if math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("not a finite number: %q", s)
	}
	return v, true, nil
}

func parseLabel(s string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || (v != 0 && v != 1) {
		return 0, fmt.Errorf("%s must be 0 or 1, got %q", LabelColumn, s)
	}
	return int(v), nil
}
