package session

import (
	"context"

	"buget/internal/core"
)

// Authenticator is the identity side of the resource gateway.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (core.AuthResult, error)
	Register(ctx context.Context, email, password string) (core.AuthResult, error)
	Me(ctx context.Context, token string) (core.User, error)
}

// TokenStore is durable storage for the single session token. Only the
// Manager reads or writes it.
type TokenStore interface {
	// Get returns ok=false when no token has been stored.
	Get(ctx context.Context) (token string, ok bool, err error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Observer is told about every state transition after it happened. It runs
// while the Manager is mid-operation and must not call back into it.
type Observer func(ctx context.Context, change Change)
