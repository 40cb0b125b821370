package config

import (
	"encoding/json"
	"os"
)

// Config holds runtime configuration for inspection and app behavior.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Classification parameters
	Threshold      float64 `json:"threshold"`       // minimum confidence for a pass verdict
	NeighbourCount int     `json:"neighbour_count"` // k used by the nearest-neighbour vote
	SampleCap      int     `json:"sample_cap"`      // max training examples per region

	// Region geometry (display space)
	MinRegionSize   int `json:"min_region_size"`
	HandleTolerance int `json:"handle_tolerance"` // resize handle hit zone side

	// Prediction loop
	PredictIntervalMs int `json:"predict_interval_ms"`

	// Camera
	CameraDevice  int `json:"camera_device"`
	CaptureWidth  int `json:"capture_width"`
	CaptureHeight int `json:"capture_height"`

	// Feature extractor
	ModelPath string `json:"model_path"` // ONNX embedding model

	// Inspection targets. Variant selects the active one.
	Variants []string `json:"variants"`
	Variant  string   `json:"variant"`

	// RemoteSamples enables the best-effort Postgres sample store. The DSN
	// itself comes from the environment, never from this file.
	RemoteSamples bool `json:"remote_samples"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:             false,
		Threshold:         0.85,
		NeighbourCount:    3,
		SampleCap:         20,
		MinRegionSize:     20,
		HandleTolerance:   20,
		PredictIntervalMs: 333,
		CameraDevice:      0,
		CaptureWidth:      640,
		CaptureHeight:     480,
		ModelPath:         "models/mobilenet_v2.onnx",
		Variants:          []string{"Polo Track", "Tera"},
		Variant:           "Polo Track",
		RemoteSamples:     false,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.Threshold < 0.5 || c.Threshold > 0.99 {
		c.Threshold = 0.85
	}
	if c.NeighbourCount <= 0 {
		c.NeighbourCount = 3
	}
	if c.SampleCap <= 0 {
		c.SampleCap = 20
	}
	if c.MinRegionSize <= 0 {
		c.MinRegionSize = 20
	}
	if c.HandleTolerance <= 0 {
		c.HandleTolerance = 20
	}
	if c.PredictIntervalMs < 100 {
		c.PredictIntervalMs = 333
	}
	if c.CameraDevice < 0 {
		c.CameraDevice = 0
	}
	if c.CaptureWidth <= 0 || c.CaptureHeight <= 0 {
		c.CaptureWidth, c.CaptureHeight = 640, 480
	}
	if c.ModelPath == "" {
		c.ModelPath = "models/mobilenet_v2.onnx"
	}
	if len(c.Variants) == 0 {
		c.Variants = []string{"Polo Track", "Tera"}
	}
	if c.Variant == "" {
		c.Variant = c.Variants[0]
	}
	known := false
	for _, v := range c.Variants {
		if v == c.Variant {
			known = true
			break
		}
	}
	if !known {
		c.Variant = c.Variants[0]
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return cfg, err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
