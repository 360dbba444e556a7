package forest

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
)

// node is a single decision node. Leaves have left == -1.
type node struct {
	feature   int
	threshold float64
	left      int32
	right     int32
	class     int
}

// Tree is a binary CART classification tree split on gini impurity.
type Tree struct {
	nodes []node
}

// Predict walks the tree and returns the leaf class for x.
func (t *Tree) Predict(x []float64) int {
	i := int32(0)
	for {
		n := &t.nodes[i]
		if n.left < 0 {
			return n.class
		}
		if x[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
}

// Depth returns the length of the longest root-to-leaf path.
func (t *Tree) Depth() int {
	var walk func(i int32) int
	walk = func(i int32) int {
		n := t.nodes[i]
		if n.left < 0 {
			return 0
		}
		return 1 + max(walk(n.left), walk(n.right))
	}
	return walk(0)
}

// Leaves returns the number of leaf nodes.
func (t *Tree) Leaves() int {
	c := 0
	for _, n := range t.nodes {
		if n.left < 0 {
			c++
		}
	}
	return c
}

type treeParams struct {
	maxDepth    int
	minSplit    int
	maxFeatures int
}

type builder struct {
	x       [][]float64
	y       []int
	params  treeParams
	rng     *rand.Rand
	nodes   []node
	scratch []int
}

// growTree fits a tree on the rows listed in idx. idx is reordered in place.
func growTree(x [][]float64, y []int, idx []int, params treeParams, rng *rand.Rand) *Tree {
	b := &builder{
		x:       x,
		y:       y,
		params:  params,
		rng:     rng,
		scratch: make([]int, len(idx)),
	}
	b.build(idx, 0)
	return &Tree{nodes: b.nodes}
}

func (b *builder) build(idx []int, depth int) int32 {
	c0, c1 := b.counts(idx)
	id := int32(len(b.nodes))
	b.nodes = append(b.nodes, node{left: -1, right: -1, class: majority(c0, c1)})

	if c0 == 0 || c1 == 0 || len(idx) < b.params.minSplit {
		return id
	}
	if b.params.maxDepth > 0 && depth >= b.params.maxDepth {
		return id
	}

	feature, threshold, ok := b.bestSplit(idx, c0, c1)
	if !ok {
		return id
	}

	mid := b.partition(idx, feature, threshold)
	if mid == 0 || mid == len(idx) {
		return id
	}
	left := b.build(idx[:mid], depth+1)
	right := b.build(idx[mid:], depth+1)

	// b.nodes may have grown during recursion; index, don't hold a pointer.
	b.nodes[id].feature = feature
	b.nodes[id].threshold = threshold
	b.nodes[id].left = left
	b.nodes[id].right = right
	return id
}

func (b *builder) counts(idx []int) (c0, c1 int) {
	for _, i := range idx {
		if b.y[i] == 1 {
			c1++
		} else {
			c0++
		}
	}
	return c0, c1
}

// bestSplit draws features in random order and evaluates the first
// maxFeatures of them. If none of those admits a split it keeps drawing
// until one does or the features run out.
func (b *builder) bestSplit(idx []int, c0, c1 int) (int, float64, bool) {
	d := len(b.x[idx[0]])
	order := b.rng.Perm(d)

	bestFeature := -1
	bestThreshold := 0.0
	bestScore := -1.0

	for k, f := range order {
		if k >= b.params.maxFeatures && bestFeature >= 0 {
			break
		}
		thr, score, ok := b.evalFeature(idx, f, c0, c1)
		if ok && score > bestScore {
			bestFeature, bestThreshold, bestScore = f, thr, score
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

// evalFeature finds the threshold on feature f that maximizes
// sum(count_k^2)/n over both children, which is equivalent to minimizing
// the weighted gini impurity.
func (b *builder) evalFeature(idx []int, f, c0, c1 int) (float64, float64, bool) {
	sorted := b.scratch[:len(idx)]
	copy(sorted, idx)
	slices.SortFunc(sorted, func(i, j int) int {
		return cmp.Compare(b.x[i][f], b.x[j][f])
	})

	n := len(sorted)
	l0, l1 := 0, 0
	found := false
	bestThr, bestScore := 0.0, -1.0

	for i := 0; i < n-1; i++ {
		if b.y[sorted[i]] == 1 {
			l1++
		} else {
			l0++
		}
		v, next := b.x[sorted[i]][f], b.x[sorted[i+1]][f]
		if v == next {
			continue
		}
		thr := v + (next-v)/2
		if thr >= next {
			thr = v
		}
		// Midpoints next to an infinity cannot separate the rows.
		if math.IsNaN(thr) || math.IsInf(thr, 0) {
			continue
		}
		nl := i + 1
		nr := n - nl
		r0, r1 := c0-l0, c1-l1
		score := float64(l0*l0+l1*l1)/float64(nl) + float64(r0*r0+r1*r1)/float64(nr)
		if score > bestScore {
			bestThr, bestScore, found = thr, score, true
		}
	}
	return bestThr, bestScore, found
}

// partition moves rows with x[f] <= threshold to the front of idx and
// returns the boundary.
func (b *builder) partition(idx []int, f int, threshold float64) int {
	i, j := 0, len(idx)-1
	for i <= j {
		if b.x[idx[i]][f] <= threshold {
			i++
			continue
		}
		idx[i], idx[j] = idx[j], idx[i]
		j--
	}
	return i
}

// majority returns the larger class; ties go to class 0.
func majority(c0, c1 int) int {
	if c1 > c0 {
		return 1
	}
	return 0
}
