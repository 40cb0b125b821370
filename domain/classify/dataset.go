package classify

import (
	"fmt"
	"sort"
)

// SerializedClass is one label's examples flattened for storage:
// Shape is [count, dimension] and FlatValues holds count*dimension
// values in row-major order.
type SerializedClass struct {
	FlatValues []float64 `json:"flat_values"`
	Shape      [2]int    `json:"shape"`
}

// SerializedDataset maps labels to their flattened example matrices.
type SerializedDataset map[string]SerializedClass

// Export flattens the dataset for persistence. Round-tripping through
// Import reproduces identical prediction behaviour.
func (c *Classifier) Export() SerializedDataset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(SerializedDataset, len(c.order))
	for _, label := range c.order {
		examples := c.examples[label]
		if len(examples) == 0 {
			continue
		}
		dim := len(examples[0])
		flat := make([]float64, 0, len(examples)*dim)
		for _, e := range examples {
			flat = append(flat, e...)
		}
		out[label] = SerializedClass{FlatValues: flat, Shape: [2]int{len(examples), dim}}
	}
	return out
}

// Import replaces the dataset with the deserialized one. Labels are
// restored in sorted order so two imports of the same payload produce
// identical classifiers regardless of map iteration.
func (c *Classifier) Import(ds SerializedDataset) error {
	restored := make(map[string][]Embedding, len(ds))
	labels := make([]string, 0, len(ds))
	for label, sc := range ds {
		count, dim := sc.Shape[0], sc.Shape[1]
		if count <= 0 || dim <= 0 || count*dim != len(sc.FlatValues) {
			return fmt.Errorf("label %q: shape %v does not match %d values", label, sc.Shape, len(sc.FlatValues))
		}
		examples := make([]Embedding, count)
		for i := 0; i < count; i++ {
			examples[i] = Embedding(sc.FlatValues[i*dim : (i+1)*dim]).Clone()
		}
		restored[label] = examples
		labels = append(labels, label)
	}
	sort.Strings(labels)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.examples = restored
	c.order = labels
	return nil
}
