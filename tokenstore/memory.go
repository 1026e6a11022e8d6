package tokenstore

import (
	"context"
	"sync"
)

// Memory keeps the token in process memory.
type Memory struct {
	mu    sync.RWMutex
	token string
}

// NewMemory returns a Memory store seeded with token (may be empty).
func NewMemory(token string) *Memory { return &Memory{token: token} }

func (m *Memory) Get(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *Memory) Set(_ context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
