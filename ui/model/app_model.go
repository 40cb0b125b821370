// Package model holds UI-facing state shared between presenters.
package model

import (
	"sync"

	"github.com/dcamarg/smart-inspector-go/domain/inspect"
)

// AppModel tracks the current UI mode and active variant. Guarded by a
// mutex because Tk callbacks and presenter ticks both touch it.
type AppModel struct {
	mu      sync.Mutex
	mode    inspect.Mode
	variant string
}

// NewAppModel starts in setup mode with the given variant.
func NewAppModel(variant string) *AppModel {
	return &AppModel{mode: inspect.ModeSetup, variant: variant}
}

// Mode returns the current UI mode.
func (m *AppModel) Mode() inspect.Mode {
	if m == nil {
		return inspect.ModeSetup
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// SetMode switches between setup and operator mode.
func (m *AppModel) SetMode(mode inspect.Mode) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.mode = mode
	m.mu.Unlock()
}

// Variant returns the active variant name.
func (m *AppModel) Variant() string {
	if m == nil {
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.variant
}

// SetVariant records the active variant name.
func (m *AppModel) SetVariant(v string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.variant = v
	m.mu.Unlock()
}
