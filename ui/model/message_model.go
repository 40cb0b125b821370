package model

import (
	"sync"
	"time"
)

const defaultMessageTTL = 4 * time.Second

// MessageModel holds the transient status line shown under the video:
// training confirmations, gate errors, persistence warnings. Messages
// expire instead of sticking around forever. The zero value is usable.
type MessageModel struct {
	mu       sync.Mutex
	text     string
	deadline time.Time
}

// NewMessageModel returns a pointer to a ready-to-use MessageModel.
func NewMessageModel() *MessageModel { return &MessageModel{} }

// Set replaces the current message with the default lifetime.
func (m *MessageModel) Set(text string) { m.SetFor(text, defaultMessageTTL) }

// SetFor replaces the current message with an explicit lifetime.
func (m *MessageModel) SetFor(text string, ttl time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.text = text
	m.deadline = time.Now().Add(ttl)
	m.mu.Unlock()
}

// Current returns the message, or "" once it has expired.
func (m *MessageModel) Current(now time.Time) string {
	if m == nil {
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.text == "" || now.After(m.deadline) {
		return ""
	}
	return m.text
}
