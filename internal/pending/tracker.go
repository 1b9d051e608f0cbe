// Package pending tracks the one-step conversation state of each chat: a
// drink was picked from the menu and the bot is waiting for a quantity reply.
package pending

import (
	"strconv"
	"strings"
	"sync"

	"barbot/internal/domain"
)

// Selection is the pending drink choice of a chat, together with the
// transient message ids that should be retracted once the step resolves.
type Selection struct {
	Drink string

	// PromptMessageID is the quantity prompt shown after the drink pick.
	PromptMessageID int
	// MenuMessageID is the drink menu the pick originated from.
	MenuMessageID int
}

// Tracker is an in-process, last-write-wins map of chat id to pending
// selection. A new Begin for a chat silently replaces the old selection.
type Tracker struct {
	mu         sync.RWMutex
	selections map[int64]Selection
}

// NewTracker constructs an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		selections: make(map[int64]Selection),
	}
}

// Begin records a pending selection for the chat, overwriting any prior one.
func (t *Tracker) Begin(chatID int64, sel Selection) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selections[chatID] = sel
}

// InProgress reports whether the chat has a pending selection.
func (t *Tracker) InProgress(chatID int64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.selections[chatID]
	return ok
}

// Take consumes and returns the pending selection of a chat. The selection is
// always removed, whether or not the caller's reply turns out to be valid.
func (t *Tracker) Take(chatID int64) (Selection, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sel, ok := t.selections[chatID]
	if ok {
		delete(t.selections, chatID)
	}
	return sel, ok
}

// Clear drops the pending selection of a chat, if any.
func (t *Tracker) Clear(chatID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.selections, chatID)
}

// ParseQuantity interprets a quantity reply. Non-numeric or negative input
// yields domain.ErrInvalidQuantity. Zero is valid and means "never mind".
func ParseQuantity(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 {
		return 0, domain.ErrInvalidQuantity
	}
	return n, nil
}
