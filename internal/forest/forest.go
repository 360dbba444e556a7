// Package forest implements a seeded random forest classifier for binary
// labels. Training is deterministic for a given Config regardless of how
// many workers fit trees in parallel.
package forest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoData is returned when Fit receives no rows.
	ErrNoData = errors.New("no training data")

	// ErrShape is returned when rows and labels disagree in size.
	ErrShape = errors.New("inconsistent training data shape")

	// ErrNonFinite is returned when a feature value is NaN or infinite.
	ErrNonFinite = errors.New("non-finite feature value")
)

// Config controls forest training.
type Config struct {
	// Trees is the number of trees in the ensemble. Default: 100.
	Trees int `yaml:"trees"`

	// MaxDepth limits tree depth. 0 grows trees until leaves are pure.
	MaxDepth int `yaml:"max_depth"`

	// MinSamplesSplit is the smallest node that may be split. Default: 2.
	MinSamplesSplit int `yaml:"min_samples_split"`

	// MaxFeatures is the number of features considered per split.
	// 0 selects floor(sqrt(features)).
	MaxFeatures int `yaml:"max_features"`

	// Seed makes bootstrap sampling and feature selection reproducible.
	Seed uint64 `yaml:"seed"`

	// Workers bounds parallel tree fitting. 0 uses GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the defaults used by the potability model.
func DefaultConfig() Config {
	return Config{
		Trees:           100,
		MinSamplesSplit: 2,
		Seed:            42,
	}
}

// Forest is a trained ensemble. It is read-only after Fit and safe for
// concurrent use.
type Forest struct {
	trees    []*Tree
	features int
}

// Fit trains a forest on rows x with labels y in {0, 1}.
func Fit(ctx context.Context, x [][]float64, y []int, cfg Config) (*Forest, error) {
	if len(x) == 0 {
		return nil, ErrNoData
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrShape, len(x), len(y))
	}
	d := len(x[0])
	if d == 0 {
		return nil, fmt.Errorf("%w: rows have no features", ErrShape)
	}
	for i, row := range x {
		if len(row) != d {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrShape, i, len(row), d)
		}
		if y[i] != 0 && y[i] != 1 {
			return nil, fmt.Errorf("label %d at row %d is not 0 or 1", y[i], i)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: row %d, feature %d is %v", ErrNonFinite, i, j, v)
			}
		}
	}

	cfg = cfg.resolve(d)
	params := treeParams{
		maxDepth:    cfg.MaxDepth,
		minSplit:    cfg.MinSamplesSplit,
		maxFeatures: cfg.MaxFeatures,
	}

	trees := make([]*Tree, cfg.Trees)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(i)+1))
			trees[i] = growTree(x, y, bootstrap(rng, len(x)), params, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fit forest: %w", err)
	}

	return &Forest{trees: trees, features: d}, nil
}

func (c Config) resolve(features int) Config {
	if c.Trees <= 0 {
		c.Trees = 100
	}
	if c.MinSamplesSplit < 2 {
		c.MinSamplesSplit = 2
	}
	if c.MaxFeatures <= 0 {
		c.MaxFeatures = max(1, int(math.Sqrt(float64(features))))
	}
	if c.MaxFeatures > features {
		c.MaxFeatures = features
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return c
}

// bootstrap draws n row indices with replacement.
func bootstrap(rng *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.IntN(n)
	}
	return idx
}

// Predict returns the majority vote of all trees. A tie goes to class 0.
// It panics if x does not have the number of features the forest was
// trained on; callers validate input before predicting.
func (f *Forest) Predict(x []float64) int {
	ones, total := f.Votes(x)
	if 2*ones > total {
		return 1
	}
	return 0
}

// Votes returns how many trees vote for class 1, and the number of trees.
func (f *Forest) Votes(x []float64) (ones, total int) {
	if len(x) != f.features {
		panic(fmt.Sprintf("forest: feature vector has %d values, model expects %d", len(x), f.features))
	}
	for _, t := range f.trees {
		ones += t.Predict(x)
	}
	return ones, len(f.trees)
}

// Score returns the fraction of rows whose prediction matches y.
func (f *Forest) Score(x [][]float64, y []int) float64 {
	if len(x) == 0 {
		return 0
	}
	correct := 0
	for i, row := range x {
		if f.Predict(row) == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(x))
}

// NumTrees returns the ensemble size.
func (f *Forest) NumTrees() int {
	return len(f.trees)
}

// NumFeatures returns the expected feature vector length.
func (f *Forest) NumFeatures() int {
	return f.features
}
