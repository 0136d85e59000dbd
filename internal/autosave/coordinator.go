// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package autosave schedules debounced writes of the active conversation.
package autosave

import (
	"log"
	"sync"
	"time"

	"github.com/jeranaias/chatvault/internal/model"
)

// =============================================================================
// AUTO-SAVE COORDINATOR
// =============================================================================

// DefaultDelay is the debounce delay before a quiescent conversation is
// persisted.
const DefaultDelay = 3 * time.Second

// Saver is the slice of the session store the coordinator needs.
type Saver interface {
	Upsert(id string, messages []model.Message) (model.ChatSession, error)
}

// State is the coordinator's per-conversation save state.
type State int

const (
	StateIdle State = iota
	StatePending
	StateSaving
)

// Coordinator observes an active conversation's message list and persists it
// after a quiescent burst. Writes are coalesced: any change while the timer
// is pending cancels and re-arms it, so only the most recent message list is
// ever written. Conversations with no real user content are never saved.
//
// A failed save is logged and not retried; the next message-list change arms
// a fresh timer. At most one save is in flight at a time. A change arriving
// while a save runs is picked up by the next Idle-to-Pending transition
// rather than by an explicit concurrent-write guard.
type Coordinator struct {
	saver Saver
	delay time.Duration

	mu        sync.Mutex
	sessionID string
	messages  []model.Message
	state     State
	timer     *time.Timer
	lastSaved time.Time

	// OnSaved, when set, runs after each successful save.
	OnSaved func(model.ChatSession)
}

// New creates a coordinator writing through the given saver.
func New(saver Saver, delay time.Duration) *Coordinator {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Coordinator{
		saver: saver,
		delay: delay,
	}
}

// Track switches the coordinator to a conversation. A pending save for the
// previous conversation is dropped.
func (c *Coordinator) Track(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelTimerLocked()
	c.sessionID = sessionID
	c.messages = nil
	c.state = StateIdle
}

// MessagesChanged records the conversation's current message list and arms
// (or re-arms) the debounce timer when the conversation is eligible for
// persistence.
func (c *Coordinator) MessagesChanged(messages []model.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Own copy: the view keeps mutating its slice.
	c.messages = make([]model.Message, len(messages))
	copy(c.messages, messages)

	if !Eligible(c.messages) {
		c.cancelTimerLocked()
		if c.state == StatePending {
			c.state = StateIdle
		}
		return
	}

	// Coalescing: a change while pending restarts the delay.
	c.cancelTimerLocked()
	c.state = StatePending
	c.timer = time.AfterFunc(c.delay, c.fire)
}

// Eligible reports whether a message list should ever be persisted: at
// least one user message and more than one message in total. This keeps
// empty or welcome-only conversations out of the collection.
func Eligible(messages []model.Message) bool {
	if len(messages) <= 1 {
		return false
	}
	for _, m := range messages {
		if m.Sender == model.SenderUser {
			return true
		}
	}
	return false
}

// Flush saves immediately when a save is pending, without waiting for the
// timer. Used on shutdown so a quiescing conversation is not lost.
func (c *Coordinator) Flush() {
	c.mu.Lock()
	pending := c.state == StatePending
	c.cancelTimerLocked()
	c.mu.Unlock()
	if pending {
		c.fire()
	}
}

// State returns the current save state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastSaved returns when the last successful save completed.
func (c *Coordinator) LastSaved() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSaved
}

// fire runs when the debounce timer elapses.
func (c *Coordinator) fire() {
	c.mu.Lock()
	if c.state != StatePending && c.state != StateIdle {
		c.mu.Unlock()
		return
	}
	id := c.sessionID
	messages := c.messages
	c.state = StateSaving
	c.timer = nil
	c.mu.Unlock()

	if id == "" || !Eligible(messages) {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
		return
	}

	saved, err := c.saver.Upsert(id, messages)

	c.mu.Lock()
	c.state = StateIdle
	if err == nil {
		c.lastSaved = time.Now()
	}
	onSaved := c.OnSaved
	c.mu.Unlock()

	if err != nil {
		// Fail fast, no hidden retries: the next change re-arms the timer.
		log.Printf("autosave: save of session %s failed: %v", id, err)
		return
	}
	if onSaved != nil {
		onSaved(saved)
	}
}

// cancelTimerLocked stops a pending timer. Callers must hold c.mu.
func (c *Coordinator) cancelTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
