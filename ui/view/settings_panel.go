package view

import (
	"log/slog"
	"strconv"

	"github.com/dcamarg/smart-inspector-go/domain/capture"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// SettingsCallbacks are invoked on user actions in the settings row.
type SettingsCallbacks struct {
	OnVariant func(name string)
	OnCamera  func(device int)
	OnSync    func()
	OnExit    func()
}

// NewSettingsPanel builds the variant and camera pickers inside parent
// at startRow and returns the next free row.
func NewSettingsPanel(parent *FrameWidget, startRow int, variants []string, devices []capture.Device, cb SettingsCallbacks, logger *slog.Logger) int {
	row := startRow

	if len(variants) == 0 {
		variants = []string{"<none>"}
	}
	variantSelect := TCombobox(Values(variants), Width(18))
	Grid(variantSelect, In(parent), Row(row), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.2m"))
	variantSelect.Current(0)
	Bind(variantSelect, "<<ComboboxSelected>>", Command(func() {
		idx, err := strconv.Atoi(variantSelect.Current(nil))
		if err != nil || idx < 0 || idx >= len(variants) {
			if logger != nil {
				logger.Error("variant selection parse error", "error", err)
			}
			return
		}
		if cb.OnVariant != nil {
			cb.OnVariant(variants[idx])
		}
	}))

	labels := make([]string, len(devices))
	for i, d := range devices {
		labels[i] = d.Label
	}
	if len(labels) == 0 {
		labels = []string{"<none>"}
	}
	cameraSelect := TCombobox(Values(labels), Width(18))
	Grid(cameraSelect, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	cameraSelect.Current(0)
	Bind(cameraSelect, "<<ComboboxSelected>>", Command(func() {
		idx, err := strconv.Atoi(cameraSelect.Current(nil))
		if err != nil || idx < 0 || idx >= len(devices) {
			if logger != nil {
				logger.Error("camera selection parse error", "error", err)
			}
			return
		}
		if cb.OnCamera != nil {
			cb.OnCamera(devices[idx].ID)
		}
	}))

	syncBtn := Button(Txt("Sincronizar banco"), Command(cb.OnSync))
	Grid(syncBtn, In(parent), Row(row), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	row++

	exitBtn := Button(Txt("Sair"), Command(cb.OnExit))
	Grid(exitBtn, In(parent), Row(row), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	row++

	return row
}
