package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dcamarg/smart-inspector-go/domain/inspect"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RegionCallbacks are invoked on user actions in the region panel.
type RegionCallbacks struct {
	OnSelect            func(index int)
	OnAdd               func()
	OnRemove            func()
	OnRename            func(name string)
	OnCaptureSample     func()
	OnCaptureBackground func()
	OnResetSamples      func()
	OnDeleteAll         func()
	OnThreshold         func(v float64)
	OnToggleMode        func()
}

// RegionPanel is the setup-mode sidebar: region list, training actions
// and the pass threshold.
type RegionPanel interface {
	SetRegions(regions []inspect.Region, activeID string)
	SetModeLabel(text string)
}

type regionPanel struct {
	logger *slog.Logger

	regionSelect *TComboboxWidget
	modeLabel    *LabelWidget
	nameEntry    *TextWidget
	thresholdIn  *TextWidget

	names    []string
	activeIx int
}

// NewRegionPanel builds the panel inside parent starting at startRow
// and returns the next free row.
func NewRegionPanel(parent *FrameWidget, startRow int, threshold float64, cb RegionCallbacks, logger *slog.Logger) (RegionPanel, int) {
	v := &regionPanel{logger: logger}
	row := startRow

	v.modeLabel = Label(Txt("Modo: configuração"))
	Grid(v.modeLabel, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	modeBtn := Button(Txt("Alternar modo"), Command(cb.OnToggleMode))
	Grid(modeBtn, In(parent), Row(row), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	row++

	v.regionSelect = TCombobox(Values([]string{"<none>"}), Width(22))
	Grid(v.regionSelect, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.2m"))
	Bind(v.regionSelect, "<<ComboboxSelected>>", Command(func() {
		idxStr := v.regionSelect.Current(nil)
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 0 {
			if v.logger != nil {
				v.logger.Error("region selection parse error", "error", err)
			}
			return
		}
		if cb.OnSelect != nil {
			cb.OnSelect(idx)
		}
	}))
	addBtn := Button(Txt("+"), Command(cb.OnAdd))
	Grid(addBtn, In(parent), Row(row), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	row++

	v.nameEntry = Text(Height(1), Width(18))
	Grid(v.nameEntry, In(parent), Row(row), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.2m"))
	renameBtn := Button(Txt("Renomear"), Command(func() {
		if cb.OnRename != nil {
			cb.OnRename(strings.TrimSpace(textOf(v.nameEntry)))
		}
	}))
	Grid(renameBtn, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	removeBtn := Button(Txt("Excluir região"), Command(cb.OnRemove))
	Grid(removeBtn, In(parent), Row(row), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	row++

	sampleBtn := Button(Txt("Capturar amostra"), Command(cb.OnCaptureSample))
	Grid(sampleBtn, In(parent), Row(row), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	backgroundBtn := Button(Txt("Capturar fundo"), Command(cb.OnCaptureBackground))
	Grid(backgroundBtn, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	resetBtn := Button(Txt("Limpar amostras"), Command(cb.OnResetSamples))
	Grid(resetBtn, In(parent), Row(row), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	row++

	deleteAllBtn := Button(Txt("Excluir todas as amostras"), Command(cb.OnDeleteAll))
	Grid(deleteAllBtn, In(parent), Row(row), Column(0), Columnspan(3), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	row++

	thLabel := Label(Txt("Confiança mínima (0.50-0.99)"), Anchor("w"))
	Grid(thLabel, In(parent), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
	v.thresholdIn = Text(Height(1), Width(8))
	v.thresholdIn.Insert("1.0", fmt.Sprintf("%.2f", threshold))
	Grid(v.thresholdIn, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.15m"))
	applyBtn := Button(Txt("Aplicar"), Command(func() {
		raw := strings.TrimSpace(textOf(v.thresholdIn))
		f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			if v.logger != nil {
				v.logger.Error("threshold parse error", "value", raw, "error", err)
			}
			return
		}
		if cb.OnThreshold != nil {
			cb.OnThreshold(f)
		}
	}))
	Grid(applyBtn, In(parent), Row(row), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.15m"))
	row++

	return v, row
}

// SetRegions refreshes the dropdown. Rebuilding on every tick would
// fight the user's open dropdown, so it only updates on change.
func (v *regionPanel) SetRegions(regions []inspect.Region, activeID string) {
	if v == nil || v.regionSelect == nil {
		return
	}
	names := make([]string, len(regions))
	activeIx := 0
	for i, r := range regions {
		names[i] = fmt.Sprintf("%s (%d)", r.Name, r.Samples)
		if r.ID == activeID {
			activeIx = i
		}
	}
	if equalNames(names, v.names) && activeIx == v.activeIx {
		return
	}
	v.names = names
	v.activeIx = activeIx
	v.regionSelect.Configure(Values(names))
	v.regionSelect.Current(activeIx)
}

func (v *regionPanel) SetModeLabel(text string) {
	if v != nil && v.modeLabel != nil {
		v.modeLabel.Configure(Txt(text))
	}
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func textOf(w *TextWidget) string {
	if w == nil {
		return ""
	}
	parts := w.Get("1.0", END)
	return strings.Join(parts, "")
}
