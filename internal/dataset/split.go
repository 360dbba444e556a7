package dataset

import (
	"math"
	"math/rand/v2"
)

// Split shuffles row indices with a seeded generator and returns the
// train and test partitions. The test partition gets
// ceil(n * testFraction) rows. The same seed always yields the same split.
func Split(ds *Dataset, testFraction float64, seed uint64) (train, test *Dataset) {
	n := ds.Len()
	nTest := int(math.Ceil(float64(n) * testFraction))
	if nTest > n {
		nTest = n
	}
	if nTest < 0 {
		nTest = 0
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	perm := rng.Perm(n)

	return subset(ds, perm[nTest:]), subset(ds, perm[:nTest])
}

func subset(ds *Dataset, idx []int) *Dataset {
	out := &Dataset{
		X: make([][]float64, len(idx)),
		Y: make([]int, len(idx)),
	}
	for i, j := range idx {
		out.X[i] = ds.X[j]
		out.Y[i] = ds.Y[j]
	}
	return out
}
