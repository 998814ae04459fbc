// Package tokenstore provides the durable slot the session token lives in
// between runs.
package tokenstore

import (
	"context"
	"sync"
)

// Memory keeps the token for the lifetime of the process only.
type Memory struct {
	mu    sync.Mutex
	token string
	ok    bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.ok, nil
}

func (m *Memory) Set(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.ok = token, true
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.ok = "", false
	return nil
}
