package bluesky

import (
	"context"
	"errors"
)

var (
	ErrNoSession   = errors.New("no stored session")
	ErrNotLoggedIn = errors.New("not logged in")
)

// Session is the authenticated state returned by createSession and
// refreshSession.
type Session struct {
	Did        string `json:"did"`
	Handle     string `json:"handle"`
	AccessJwt  string `json:"accessJwt"`
	RefreshJwt string `json:"refreshJwt"`
}

//go:generate go run go.uber.org/mock/mockgen -source=bluesky.go -destination=mocks/mock.go
type Client interface {
	// Login resumes the stored session or creates a new one
	Login(ctx context.Context) error

	// GetActorLikes returns one page of the configured actor's likes with
	// snake_case keys
	GetActorLikes(ctx context.Context, limit int) (map[string]any, error)
}

// SessionStore persists the serialized session between runs.
type SessionStore interface {
	// Load fails with ErrNoSession when nothing was saved yet
	Load() (string, error)
	Save(session string) error
}
