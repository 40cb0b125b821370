package classify

import (
	"errors"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// ErrNoData is returned by Predict when no label has any examples.
// Callers treat it as "unknown", never as a failure.
var ErrNoData = errors.New("classifier has no training data")

// Embedding is a fixed-length feature vector produced by the extractor.
type Embedding []float64

// Clone returns an independent copy of the embedding.
func (e Embedding) Clone() Embedding {
	out := make(Embedding, len(e))
	copy(out, e)
	return out
}

// Prediction is the outcome of a nearest-neighbour vote. Confidences is
// a total mapping: every known label is present, labels receiving no
// votes map to 0, and the values sum to 1.
type Prediction struct {
	Label       string
	Confidences map[string]float64
}

// Classifier is an instance-based k-nearest-neighbour classifier over
// embeddings. The dataset grows by append and shrinks only by clearing
// whole labels. Training and prediction are called from different
// goroutines (UI thread vs. scheduler), so access is serialized
// internally; a predict never observes a half-added example.
type Classifier struct {
	mu       sync.RWMutex
	k        int
	examples map[string][]Embedding
	order    []string // label insertion order, for deterministic iteration
}

// NewClassifier returns an empty classifier voting over k neighbours.
func NewClassifier(k int) *Classifier {
	if k <= 0 {
		k = 3
	}
	return &Classifier{k: k, examples: make(map[string][]Embedding)}
}

// AddExample appends an embedding to a label's collection. No cap is
// enforced here; the caller owns sample limits.
func (c *Classifier) AddExample(e Embedding, label string) {
	if len(e) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.examples[label]; !ok {
		c.order = append(c.order, label)
	}
	c.examples[label] = append(c.examples[label], e.Clone())
}

// ClearLabel removes all embeddings for a label. No-op if absent.
func (c *Classifier) ClearLabel(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.examples[label]; !ok {
		return
	}
	delete(c.examples, label)
	for i, l := range c.order {
		if l == label {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// ClearAll empties the dataset.
func (c *Classifier) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.examples = make(map[string][]Embedding)
	c.order = nil
}

// NumClasses returns the count of labels with at least one embedding.
func (c *Classifier) NumClasses() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// NumExamples returns the number of embeddings stored for a label.
func (c *Classifier) NumExamples(label string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.examples[label])
}

type neighbour struct {
	label string
	dist  float64
	index int
}

// Predict votes the k nearest stored embeddings (Euclidean distance)
// and derives per-label confidences as each label's share of those k
// votes. Vote ties resolve to the label holding the nearest neighbour,
// so the outcome does not depend on label insertion order and survives
// an export/import round trip unchanged.
func (c *Classifier) Predict(e Embedding) (Prediction, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.order) == 0 {
		return Prediction{}, ErrNoData
	}

	var all []neighbour
	for _, label := range c.order {
		for i, ex := range c.examples[label] {
			if len(ex) != len(e) {
				continue
			}
			all = append(all, neighbour{label: label, dist: floats.Distance(ex, e, 2), index: i})
		}
	}
	if len(all) == 0 {
		return Prediction{}, ErrNoData
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].dist != all[j].dist {
			return all[i].dist < all[j].dist
		}
		if all[i].label != all[j].label {
			return all[i].label < all[j].label
		}
		return all[i].index < all[j].index
	})

	k := c.k
	if k > len(all) {
		k = len(all)
	}
	votes := make(map[string]int, len(c.order))
	for _, n := range all[:k] {
		votes[n.label]++
	}

	confidences := make(map[string]float64, len(c.order))
	for _, label := range c.order {
		confidences[label] = float64(votes[label]) / float64(k)
	}

	// Walk the neighbours in distance order so a vote tie resolves to
	// the label with the closest example, independent of the order
	// labels were inserted or restored.
	best := ""
	bestVotes := 0
	for _, n := range all[:k] {
		if votes[n.label] > bestVotes {
			best = n.label
			bestVotes = votes[n.label]
		}
	}
	return Prediction{Label: best, Confidences: confidences}, nil
}
