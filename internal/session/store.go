// Package session keeps per-visitor state: the cart lines and the
// "current user" flag set by the mock login.
package session

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/storefront-service/internal/domain"
)

var ErrSessionNotFound = errors.New("session not found")

// State is everything remembered about one session.
type State struct {
	Lines []domain.CartLine `json:"lines"`
	User  *domain.User      `json:"user,omitempty"`
}

// Store persists session state for the lifetime of a session.
type Store interface {
	Get(ctx context.Context, sessionID string) (*State, error)
	Set(ctx context.Context, sessionID string, state *State) error
	Delete(ctx context.Context, sessionID string) error
}
