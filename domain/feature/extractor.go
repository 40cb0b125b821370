// Package feature wraps the frozen image-to-embedding model. The
// extractor is a black box to the rest of the system: image in, fixed
// length vector out. Nothing here is ever trained.
package feature

import (
	"errors"
	"image"

	"github.com/dcamarg/smart-inspector-go/domain/classify"
)

var (
	// ErrModelUnavailable is the fatal startup condition: the embedding
	// model could not be loaded. Initialization stops and the UI shows a
	// retry-eligible error; the camera is not started.
	ErrModelUnavailable = errors.New("embedding model failed to load")
	// ErrInference marks a per-crop extraction failure, absorbed by the
	// prediction loop as "no result this tick".
	ErrInference = errors.New("feature extraction failed")
)

// Extractor maps an image region to an embedding.
type Extractor interface {
	Embed(img image.Image) (classify.Embedding, error)
}
