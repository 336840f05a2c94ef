package model

import (
	"bytes"
	"encoding/gob"
	"errors"
	"math"
	"math/rand"
	"sort"
	"sync"
)

// ---------------------------
// Types & options
// ---------------------------

// DecisionTreeClassifier is a CART-style classifier over numeric features.
type DecisionTreeClassifier struct {
	// Hyperparameters / options
	MaxDepth            int     // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples required in each leaf
	Criterion           string  // "gini" (default) or "entropy"
	MaxFeatures         int     // 0 => use all features, >0 => number of features to sample per split
	MinImpurityDecrease float64 // minimal weighted impurity decrease to accept a split
	RandomState         int64   // seed for feature subsampling

	// internals
	nodes       []treeNode
	classes     []int // sorted class labels (order used by probas)
	nFeatures   int
	importances []float64 // unnormalized weighted impurity decrease per feature
}

// treeNode is one entry of the flat node table. Children are indices into
// the table; leaves have Left == Right == -1.
type treeNode struct {
	Feature   int
	Threshold float64 // x <= Threshold => left
	Left      int
	Right     int
	N         int
	Probas    []float64 // leaf class distribution aligned with classes
}

func (n treeNode) isLeaf() bool { return n.Left < 0 }

// Option functional config
type Option func(*DecisionTreeClassifier)

func WithMaxDepth(d int) Option { return func(t *DecisionTreeClassifier) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesLeaf = n }
}
func WithCriterion(c string) Option { return func(t *DecisionTreeClassifier) { t.Criterion = c } }
func WithMaxFeatures(k int) Option  { return func(t *DecisionTreeClassifier) { t.MaxFeatures = k } }
func WithMinImpurityDecrease(v float64) Option {
	return func(t *DecisionTreeClassifier) { t.MinImpurityDecrease = v }
}
func WithRandomState(seed int64) Option {
	return func(t *DecisionTreeClassifier) { t.RandomState = seed }
}

// NewDecisionTreeClassifier returns a classifier with sensible defaults.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	d := &DecisionTreeClassifier{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       CriterionGini,
		RandomState:     42,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Split criteria.
const (
	CriterionGini    = "gini"
	CriterionEntropy = "entropy"
)

// parallelSplitMin is the node size from which features are searched
// concurrently.
const parallelSplitMin = 2048

// ---------------------------
// Public API
// ---------------------------

// Fit trains the tree on every row of X.
func (t *DecisionTreeClassifier) Fit(X [][]float64, y []int) error {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.FitSample(X, y, idx)
}

// FitSample trains the tree on the rows of X listed in sample. Repeated
// indices act as sample weights, which is how bootstrap samples are fed.
// Class labels are taken from all of y so trees grown on different samples
// share one class order.
func (t *DecisionTreeClassifier) FitSample(X [][]float64, y []int, sample []int) error {
	if len(X) == 0 {
		return errors.New("dtree: empty X")
	}
	if len(y) != len(X) {
		return errors.New("dtree: X and y length mismatch")
	}
	if len(sample) == 0 {
		return errors.New("dtree: empty sample")
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return errors.New("dtree: inconsistent number of features in X rows")
		}
	}
	if t.Criterion != CriterionGini && t.Criterion != CriterionEntropy {
		return errors.New("dtree: unknown criterion " + t.Criterion)
	}

	t.classes = uniqueSorted(y)
	t.nFeatures = p
	t.importances = make([]float64, p)
	t.nodes = t.nodes[:0]

	b := &treeBuilder{
		tree:     t,
		X:        X,
		y:        y,
		classIdx: classLookup(t.classes),
		rnd:      rand.New(rand.NewSource(t.RandomState)),
		impurity: giniFromCounts,
		nTotal:   float64(len(sample)),
	}
	if t.Criterion == CriterionEntropy {
		b.impurity = entropyFromCounts
	}
	b.build(append([]int(nil), sample...), 0)
	return nil
}

// Classes returns the class labels in probability order.
func (t *DecisionTreeClassifier) Classes() []int { return append([]int(nil), t.classes...) }

// Predict returns the most probable class label of each row.
func (t *DecisionTreeClassifier) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i := range X {
		out[i] = t.classes[argmaxFloat(t.predictProbaSingle(X[i]))]
	}
	return out
}

// PredictProba returns the per-class probability vectors for rows in X.
func (t *DecisionTreeClassifier) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		out[i] = t.predictProbaSingle(X[i])
	}
	return out
}

// ClassProba returns the probability of label for x, zero for labels the
// tree never saw.
func (t *DecisionTreeClassifier) ClassProba(x []float64, label int) float64 {
	probs := t.predictProbaSingle(x)
	for i, c := range t.classes {
		if c == label {
			return probs[i]
		}
	}
	return 0
}

// FeatureImportances returns the impurity-based importances normalized to
// sum to one. A tree that never split returns all zeros.
func (t *DecisionTreeClassifier) FeatureImportances() []float64 {
	out := make([]float64, len(t.importances))
	total := 0.0
	for _, v := range t.importances {
		total += v
	}
	if total == 0 {
		return out
	}
	for i, v := range t.importances {
		out[i] = v / total
	}
	return out
}

// Depth returns the depth of the deepest leaf.
func (t *DecisionTreeClassifier) Depth() int {
	if len(t.nodes) == 0 {
		return 0
	}
	var walk func(i, d int) int
	walk = func(i, d int) int {
		n := t.nodes[i]
		if n.isLeaf() {
			return d
		}
		return max(walk(n.Left, d+1), walk(n.Right, d+1))
	}
	return walk(0, 0)
}

// treeSnapshot is the gob form of a fitted tree.
type treeSnapshot struct {
	MaxDepth            int
	MinSamplesSplit     int
	MinSamplesLeaf      int
	Criterion           string
	MaxFeatures         int
	MinImpurityDecrease float64
	RandomState         int64
	Nodes               []treeNode
	Classes             []int
	NFeatures           int
	Importances         []float64
}

// MarshalBinary implements encoding.BinaryMarshaler using gob.
func (t *DecisionTreeClassifier) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(treeSnapshot{
		MaxDepth:            t.MaxDepth,
		MinSamplesSplit:     t.MinSamplesSplit,
		MinSamplesLeaf:      t.MinSamplesLeaf,
		Criterion:           t.Criterion,
		MaxFeatures:         t.MaxFeatures,
		MinImpurityDecrease: t.MinImpurityDecrease,
		RandomState:         t.RandomState,
		Nodes:               t.nodes,
		Classes:             t.classes,
		NFeatures:           t.nFeatures,
		Importances:         t.importances,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using gob.
func (t *DecisionTreeClassifier) UnmarshalBinary(data []byte) error {
	var s treeSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	*t = DecisionTreeClassifier{
		MaxDepth:            s.MaxDepth,
		MinSamplesSplit:     s.MinSamplesSplit,
		MinSamplesLeaf:      s.MinSamplesLeaf,
		Criterion:           s.Criterion,
		MaxFeatures:         s.MaxFeatures,
		MinImpurityDecrease: s.MinImpurityDecrease,
		RandomState:         s.RandomState,
		nodes:               s.Nodes,
		classes:             s.Classes,
		nFeatures:           s.NFeatures,
		importances:         s.Importances,
	}
	return nil
}

// ---------------------------
// Internal builders & helpers
// ---------------------------

type treeBuilder struct {
	tree     *DecisionTreeClassifier
	X        [][]float64
	y        []int
	classIdx map[int]int
	rnd      *rand.Rand
	impurity func([]int) float64
	nTotal   float64
}

// splitResult holds the best split found for one feature.
type splitResult struct {
	gain      float64
	feature   int
	threshold float64
	pos       int   // split position in sorted
	sorted    []int // sample indices sorted by the feature
}

// build grows the subtree for idx and returns its node index.
func (b *treeBuilder) build(idx []int, depth int) int {
	t := b.tree
	nClasses := len(t.classes)

	counts := make([]int, nClasses)
	for _, ii := range idx {
		counts[b.classIdx[b.y[ii]]]++
	}

	self := len(t.nodes)
	t.nodes = append(t.nodes, treeNode{Feature: -1, Left: -1, Right: -1, N: len(idx), Probas: countsToProbas(counts)})

	if isPure(counts) ||
		len(idx) < t.MinSamplesSplit ||
		len(idx) < 2*max(t.MinSamplesLeaf, 1) ||
		(t.MaxDepth > 0 && depth >= t.MaxDepth) {
		return self
	}

	featIndices := b.candidateFeatures()
	parentImpurity := b.impurity(counts)

	results := make([]splitResult, len(featIndices))
	if len(idx) >= parallelSplitMin {
		var wg sync.WaitGroup
		for k, f := range featIndices {
			wg.Add(1)
			go func(k, f int) {
				defer wg.Done()
				results[k] = b.bestSplitForFeature(idx, f, counts, parentImpurity)
			}(k, f)
		}
		wg.Wait()
	} else {
		for k, f := range featIndices {
			results[k] = b.bestSplitForFeature(idx, f, counts, parentImpurity)
		}
	}

	// first best in candidate order wins ties
	best := splitResult{feature: -1}
	for _, r := range results {
		if r.feature >= 0 && r.gain > best.gain {
			best = r
		}
	}

	weighted := best.gain * float64(len(idx)) / b.nTotal
	if best.feature < 0 || weighted <= t.MinImpurityDecrease || best.gain <= 0 {
		return self
	}

	t.importances[best.feature] += weighted

	leftIdx := append([]int(nil), best.sorted[:best.pos]...)
	rightIdx := append([]int(nil), best.sorted[best.pos:]...)
	left := b.build(leftIdx, depth+1)
	right := b.build(rightIdx, depth+1)

	n := &t.nodes[self]
	n.Feature = best.feature
	n.Threshold = best.threshold
	n.Left = left
	n.Right = right
	return self
}

// candidateFeatures returns the features to try at a node, sampled without
// replacement when MaxFeatures limits them.
func (b *treeBuilder) candidateFeatures() []int {
	p := b.tree.nFeatures
	feats := make([]int, p)
	for j := range feats {
		feats[j] = j
	}
	k := b.tree.MaxFeatures
	if k <= 0 || k >= p {
		return feats
	}
	for i := 0; i < k; i++ {
		j := i + b.rnd.Intn(p-i)
		feats[i], feats[j] = feats[j], feats[i]
	}
	return feats[:k]
}

// bestSplitForFeature sorts idx by feature f and sweeps thresholds between
// distinct values, updating class counts incrementally.
func (b *treeBuilder) bestSplitForFeature(idx []int, f int, parent []int, parentImpurity float64) splitResult {
	result := splitResult{feature: -1}
	X := b.X

	sorted := append([]int(nil), idx...)
	sort.SliceStable(sorted, func(i, j int) bool { return X[sorted[i]][f] < X[sorted[j]][f] })

	n := len(sorted)
	minLeaf := max(b.tree.MinSamplesLeaf, 1)
	left := make([]int, len(parent))
	right := append([]int(nil), parent...)

	for s := 1; s < n; s++ {
		ci := b.classIdx[b.y[sorted[s-1]]]
		left[ci]++
		right[ci]--

		lo, hi := X[sorted[s-1]][f], X[sorted[s]][f]
		if lo == hi {
			continue
		}
		if s < minLeaf || n-s < minLeaf {
			continue
		}
		wl := float64(s) / float64(n)
		gain := parentImpurity - wl*b.impurity(left) - (1-wl)*b.impurity(right)
		if gain > result.gain {
			thr := lo + (hi-lo)/2
			if thr == hi {
				thr = lo
			}
			result = splitResult{gain: gain, feature: f, threshold: thr, pos: s}
		}
	}
	if result.feature >= 0 {
		result.sorted = sorted
	}
	return result
}

func (t *DecisionTreeClassifier) predictProbaSingle(x []float64) []float64 {
	if len(t.nodes) == 0 {
		p := make([]float64, len(t.classes))
		for i := range p {
			p[i] = 1.0 / float64(len(p))
		}
		return p
	}
	n := t.nodes[0]
	for !n.isLeaf() {
		if x[n.Feature] <= n.Threshold {
			n = t.nodes[n.Left]
		} else {
			n = t.nodes[n.Right]
		}
	}
	return n.Probas
}

// ---------------------------
// Utilities: impurity & misc
// ---------------------------

func giniFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 1.0
	for _, c := range counts {
		p := float64(c) / n
		res -= p * p
	}
	return res
}

func entropyFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		res -= p * math.Log2(p)
	}
	return res
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func countsToProbas(counts []int) []float64 {
	n := 0
	for _, c := range counts {
		n += c
	}
	p := make([]float64, len(counts))
	if n == 0 {
		return p
	}
	for i := range counts {
		p[i] = float64(counts[i]) / float64(n)
	}
	return p
}

func argmaxFloat(arr []float64) int {
	best := 0
	for i := 1; i < len(arr); i++ {
		if arr[i] > arr[best] {
			best = i
		}
	}
	return best
}

func uniqueSorted(y []int) []int {
	seen := map[int]struct{}{}
	var out []int
	for _, v := range y {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

func classLookup(classes []int) map[int]int {
	m := make(map[int]int, len(classes))
	for i, c := range classes {
		m[c] = i
	}
	return m
}
