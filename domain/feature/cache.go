package feature

import (
	"image"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dcamarg/smart-inspector-go/domain/classify"
)

// CropKey identifies one extracted crop: a frame sequence number plus
// the native-space rectangle that was cut from it.
type CropKey struct {
	Sequence uint64
	Rect     image.Rectangle
}

// Cache memoizes embeddings per (frame, crop). The prediction loop uses
// it so an unchanged frame and geometry never pay for a second forward
// pass, and training immediately followed by prediction reuses the same
// activation.
type Cache struct {
	lru *lru.Cache[CropKey, classify.Embedding]
}

// NewCache returns a cache bounded to size entries.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = 64
	}
	c, err := lru.New[CropKey, classify.Embedding](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c}, nil
}

// Get returns the cached embedding for key, if present.
func (c *Cache) Get(key CropKey) (classify.Embedding, bool) {
	if c == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

// Add stores an embedding for key.
func (c *Cache) Add(key CropKey, e classify.Embedding) {
	if c == nil || len(e) == 0 {
		return
	}
	c.lru.Add(key, e)
}
