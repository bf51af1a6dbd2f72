// Package session holds server-side session state, keyed by an opaque
// token handed to the browser in a cookie. The token carries no claims;
// everything lives in the store.
package session

import (
	"context"
	"time"
)

// Session is the server-side record for one logged-in browser.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store defines the interface for session persistence
type Store interface {
	Save(ctx context.Context, session *Session) error
	// Get returns model.ErrInvalidSession for unknown or expired tokens.
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	Close() error
}
