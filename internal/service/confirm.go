package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrConfirmationNotFound = errors.New("confirmation not found or already resolved")

// ConfirmationPrompt is what the dashboard shows before a destructive
// action runs: a title, a message, a labeled action button, and an
// optional post-action navigation target.
type ConfirmationPrompt struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	ActionLabel string `json:"actionLabel"`
	RedirectTo  string `json:"redirectTo,omitempty"`
}

type pendingAction struct {
	prompt    ConfirmationPrompt
	action    func(ctx context.Context) error
	expiresAt time.Time
}

// ConfirmationGate is the two-phase replacement for the blocking
// confirmation modal: Request registers an action and hands back a
// one-time token; Confirm runs the action exactly once; Cancel discards
// it without running anything. The gate holds no state beyond the
// pending entries.
type ConfirmationGate struct {
	mu      sync.Mutex
	ttl     time.Duration
	pending map[string]pendingAction
	now     func() time.Time
}

// NewConfirmationGate creates a gate whose pending entries expire after ttl.
func NewConfirmationGate(ttl time.Duration) *ConfirmationGate {
	return &ConfirmationGate{
		ttl:     ttl,
		pending: make(map[string]pendingAction),
		now:     time.Now,
	}
}

// Request registers an action behind the prompt and returns its token.
// The action is not invoked until Confirm is called with that token.
func (g *ConfirmationGate) Request(prompt ConfirmationPrompt, action func(ctx context.Context) error) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.evictLocked()

	token := uuid.NewString()
	g.pending[token] = pendingAction{
		prompt:    prompt,
		action:    action,
		expiresAt: g.now().Add(g.ttl),
	}
	return token
}

// Prompt returns the prompt registered for a token.
func (g *ConfirmationGate) Prompt(token string) (ConfirmationPrompt, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.evictLocked()
	entry, ok := g.pending[token]
	return entry.prompt, ok
}

// Confirm removes the pending entry and invokes its action. A second
// Confirm with the same token returns ErrConfirmationNotFound, so the
// action can never fire twice.
func (g *ConfirmationGate) Confirm(ctx context.Context, token string) (ConfirmationPrompt, error) {
	g.mu.Lock()
	g.evictLocked()
	entry, ok := g.pending[token]
	if ok {
		delete(g.pending, token)
	}
	g.mu.Unlock()

	if !ok {
		return ConfirmationPrompt{}, ErrConfirmationNotFound
	}
	return entry.prompt, entry.action(ctx)
}

// Cancel discards a pending entry without invoking its action.
func (g *ConfirmationGate) Cancel(token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.evictLocked()
	if _, ok := g.pending[token]; !ok {
		return ErrConfirmationNotFound
	}
	delete(g.pending, token)
	return nil
}

func (g *ConfirmationGate) evictLocked() {
	now := g.now()
	for token, entry := range g.pending {
		if !entry.expiresAt.After(now) {
			delete(g.pending, token)
		}
	}
}
