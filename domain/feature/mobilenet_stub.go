//go:build !gocv
// +build !gocv

package feature

import (
	"image"

	"github.com/dcamarg/smart-inspector-go/domain/classify"
)

// MobileNet stub for builds without the gocv tag.
type MobileNet struct{}

// NewMobileNet fails with the fatal startup condition; inspection needs
// a build with embedding support.
func NewMobileNet(path string) (*MobileNet, error) {
	return nil, ErrModelUnavailable
}

// Embed always fails on the stub.
func (m *MobileNet) Embed(img image.Image) (classify.Embedding, error) {
	return nil, ErrModelUnavailable
}

// Close is a no-op on the stub.
func (m *MobileNet) Close() error { return nil }
