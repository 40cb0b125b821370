// Package session gates prediction and result recording on an open
// inspection transaction identified by a scanned or typed code.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dcamarg/smart-inspector-go/domain/inspect"
)

var (
	// ErrEmptyCode rejects opening a session without a code.
	ErrEmptyCode = errors.New("session code is empty")
	// ErrNoSession is returned when saving without an open session.
	ErrNoSession = errors.New("no open session")
	// ErrSessionOpen is returned when opening over an existing session.
	ErrSessionOpen = errors.New("a session is already open")
)

// Entry is one append-only history record, created when an open session
// is saved and never mutated afterwards.
type Entry struct {
	ID        string
	Code      string
	Timestamp time.Time
	Overall   inspect.Status
	Details   string
	Snapshot  []byte // PNG of the last rendered overlay, optional
}

// Gate holds the at-most-one open session and the most-recent-first
// history. It is read by the prediction scheduler and written from the
// UI thread, so access is serialized.
type Gate struct {
	mu      sync.RWMutex
	code    string
	history []Entry
	now     func() time.Time
}

// NewGate returns a gate with no open session.
func NewGate() *Gate {
	return &Gate{now: time.Now}
}

// Open starts a session for a non-empty code. A second open while one
// is pending is rejected; the operator must save or abandon first.
func (g *Gate) Open(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmptyCode
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.code != "" {
		return ErrSessionOpen
	}
	g.code = code
	return nil
}

// Active reports whether a session is open.
func (g *Gate) Active() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.code != ""
}

// Code returns the open session's code, or "".
func (g *Gate) Code() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.code
}

// Save records the regions' final statuses as a history entry, prepends
// it and closes the session. Overall is pass only when every region
// passed.
func (g *Gate) Save(regions []inspect.Region, snapshot []byte) (Entry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.code == "" {
		return Entry{}, ErrNoSession
	}
	entry := Entry{
		ID:        uuid.NewString(),
		Code:      g.code,
		Timestamp: g.now(),
		Overall:   overall(regions),
		Details:   details(regions),
		Snapshot:  snapshot,
	}
	g.history = append([]Entry{entry}, g.history...)
	g.code = ""
	return entry, nil
}

// Abandon closes the session without recording anything. Called when
// the operator leaves inspection mode or switches variant.
func (g *Gate) Abandon() {
	g.mu.Lock()
	g.code = ""
	g.mu.Unlock()
}

// History returns the entries, most recent first. The returned slice is
// a copy.
func (g *Gate) History() []Entry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Entry, len(g.history))
	copy(out, g.history)
	return out
}

// ClearHistory drops all entries (delete-all-data flow).
func (g *Gate) ClearHistory() {
	g.mu.Lock()
	g.history = nil
	g.mu.Unlock()
}

func overall(regions []inspect.Region) inspect.Status {
	for _, r := range regions {
		if r.Status != inspect.StatusPass {
			return inspect.StatusFail
		}
	}
	return inspect.StatusPass
}

func details(regions []inspect.Region) string {
	var b strings.Builder
	for i, r := range regions {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.Name)
		b.WriteString(": ")
		if r.Status == inspect.StatusPass {
			b.WriteString("OK")
		} else {
			b.WriteString("FALHA")
		}
	}
	return b.String()
}
