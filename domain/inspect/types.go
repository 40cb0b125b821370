package inspect

// Status is the last prediction verdict for a region.
type Status int

const (
	StatusUnknown Status = iota
	StatusPass
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Mode selects the surrounding interaction mode of the application.
// Region editing is only possible in setup mode; prediction only runs
// in operator mode.
type Mode int

const (
	ModeSetup Mode = iota
	ModeOperator
)

func (m Mode) String() string {
	if m == ModeOperator {
		return "operator"
	}
	return "setup"
}

// Box is an axis-aligned rectangle in display space (the coordinate
// system of the rendered video, not the camera's native resolution).
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether the display-space point (px, py) lies inside the box.
func (b Box) Contains(px, py float64) bool {
	return px >= b.X && px <= b.X+b.W && py >= b.Y && py <= b.Y+b.H
}

// Region is one inspection target: a named box with its training and
// last-prediction state. Regions are value types; the store replaces
// whole slices on mutation so readers never see partial updates.
type Region struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Box        Box     `json:"box"`
	Samples    int     `json:"samples"`
	Status     Status  `json:"-"`
	Confidence float64 `json:"-"`
}

// Result is one region's outcome of a prediction iteration.
type Result struct {
	Status     Status
	Confidence float64
}

// RegionReader is the read-only store contract used by loops that must
// observe the latest regions without blocking writers.
type RegionReader interface {
	Snapshot() ([]Region, string)
}
