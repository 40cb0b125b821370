package view

import (
	"fmt"
	"strings"

	"github.com/dcamarg/smart-inspector-go/domain/session"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// SessionCallbacks are invoked on user actions in the session panel.
type SessionCallbacks struct {
	OnOpen          func(code string)
	OnTogglePredict func()
	OnSave          func()
	OnAbandon       func()
	OnClearHistory  func()
}

// SessionPanel is the operator-mode sidebar: barcode gate, verdict
// loop control and the inspection history.
type SessionPanel interface {
	SetSessionLabel(text string)
	SetHistory(entries []session.Entry)
	ClearBarcode()
}

type sessionPanel struct {
	sessionLabel *LabelWidget
	barcodeEntry *TextWidget
	historyText  *TextWidget

	lastHistory int
}

// NewSessionPanel builds the panel inside parent starting at startRow
// and returns the next free row.
func NewSessionPanel(parent *FrameWidget, startRow int, cb SessionCallbacks) (SessionPanel, int) {
	v := &sessionPanel{}
	row := startRow

	v.sessionLabel = Label(Txt("Sessão: —"), Borderwidth(1), Relief("ridge"))
	Grid(v.sessionLabel, In(parent), Row(row), Column(0), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++

	v.barcodeEntry = Text(Height(1), Width(18))
	Grid(v.barcodeEntry, In(parent), Row(row), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.2m"))
	openBtn := Button(Txt("Abrir sessão"), Command(func() {
		if cb.OnOpen != nil {
			cb.OnOpen(strings.TrimSpace(textOf(v.barcodeEntry)))
		}
	}))
	Grid(openBtn, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	predictBtn := Button(Txt("Iniciar/Parar"), Command(cb.OnTogglePredict))
	Grid(predictBtn, In(parent), Row(row), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	// Barcode scanners terminate with Enter.
	Bind(v.barcodeEntry, "<Return>", Command(func() {
		if cb.OnOpen != nil {
			cb.OnOpen(strings.TrimSpace(textOf(v.barcodeEntry)))
		}
	}))
	row++

	saveBtn := Button(Txt("Salvar inspeção"), Command(cb.OnSave))
	Grid(saveBtn, In(parent), Row(row), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	abandonBtn := Button(Txt("Abandonar"), Command(cb.OnAbandon))
	Grid(abandonBtn, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	clearBtn := Button(Txt("Limpar histórico"), Command(cb.OnClearHistory))
	Grid(clearBtn, In(parent), Row(row), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	row++

	v.historyText = Text(Height(8), Width(48))
	Grid(v.historyText, In(parent), Row(row), Column(0), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++

	return v, row
}

func (v *sessionPanel) SetSessionLabel(text string) {
	if v != nil && v.sessionLabel != nil {
		v.sessionLabel.Configure(Txt(text))
	}
}

// SetHistory rewrites the history text, most recent first.
func (v *sessionPanel) SetHistory(entries []session.Entry) {
	if v == nil || v.historyText == nil {
		return
	}
	if len(entries) == v.lastHistory {
		return
	}
	v.lastHistory = len(entries)
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %s  %s\n    %s\n",
			e.Timestamp.Format("02/01 15:04:05"), e.Code, e.Overall, e.Details)
	}
	v.historyText.Delete("1.0", END)
	v.historyText.Insert("1.0", b.String())
}

func (v *sessionPanel) ClearBarcode() {
	if v != nil && v.barcodeEntry != nil {
		v.barcodeEntry.Delete("1.0", END)
	}
}
