// Package repository holds the per-session dashboard state.
package repository

import (
	"context"
	"time"

	"github.com/okian/podium/internal/domain/filter"
)

// Session is one dashboard viewer's filter state. The Selection is replaced
// as a whole on update and never modified in place.
type Session struct {
	ID         string           `json:"id"`
	Selection  filter.Selection `json:"-"`
	CreatedAt  time.Time        `json:"createdAt"`
	LastAccess time.Time        `json:"lastAccess"`
}

// Store provides access to sessions.
type Store interface {
	// Create stores a new session holding sel.
	Create(ctx context.Context, sel filter.Selection) (Session, error)
	// Get returns the session and refreshes its idle timer.
	// Returns ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (Session, error)
	// Update replaces the session's selection.
	Update(ctx context.Context, id string, sel filter.Selection) (Session, error)
	// Delete removes the session.
	Delete(ctx context.Context, id string) error
	// Count returns the number of live sessions.
	Count(ctx context.Context) int
}
