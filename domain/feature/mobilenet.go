//go:build gocv
// +build gocv

package feature

import (
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	"github.com/dcamarg/smart-inspector-go/domain/classify"
)

const inputSide = 224

// MobileNet runs a pretrained MobileNetV2 ONNX network through the
// OpenCV DNN module and returns its penultimate activation as the
// embedding. The network is loaded once at startup and never modified.
type MobileNet struct {
	mu  sync.Mutex // gocv nets are not safe for concurrent Forward
	net gocv.Net
}

// NewMobileNet loads the ONNX model at path. A missing or unreadable
// model is the fatal startup condition.
func NewMobileNet(path string) (*MobileNet, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	net := gocv.ReadNetFromONNX(path)
	if net.Empty() {
		return nil, fmt.Errorf("%w: empty network from %s", ErrModelUnavailable, path)
	}
	return &MobileNet{net: net}, nil
}

// Embed resizes the crop to the network input, runs a forward pass and
// returns the L2-normalized activation vector.
func (m *MobileNet) Embed(img image.Image) (classify.Embedding, error) {
	if img == nil {
		return nil, ErrInference
	}
	resized := imaging.Resize(img, inputSide, inputSide, imaging.Linear)
	mat, err := gocv.ImageToMatRGB(resized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/127.5, image.Pt(inputSide, inputSide),
		gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
	defer blob.Close()

	m.mu.Lock()
	m.net.SetInput(blob, "")
	out := m.net.Forward("")
	m.mu.Unlock()
	defer out.Close()

	raw, err := out.DataPtrFloat32()
	if err != nil || len(raw) == 0 {
		return nil, ErrInference
	}
	return normalize(raw), nil
}

// Close releases the network.
func (m *MobileNet) Close() error { return m.net.Close() }

// normalize converts the activation to a unit-length float64 vector so
// neighbour distances are comparable across frames.
func normalize(raw []float32) classify.Embedding {
	out := make(classify.Embedding, len(raw))
	var sum float64
	for i, v := range raw {
		f := float64(v)
		out[i] = f
		sum += f * f
	}
	if sum > 0 {
		inv := 1 / math.Sqrt(sum)
		for i := range out {
			out[i] *= inv
		}
	}
	return out
}
