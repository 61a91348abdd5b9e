package kv

import (
	"context"
	"sync"
)

// Memory is a Slots implementation backed by a map.
type Memory struct {
	mu    sync.RWMutex
	slots map[string][]byte

	// FailPut, when set, is returned by every Put. Used to exercise write failures.
	FailPut error
}

// NewMemory returns an empty in-memory Slots.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

var _ Slots = (*Memory)(nil)

// Get implements Slots.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ValidKey(key) {
		return nil, ErrInvalidKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put implements Slots.
func (m *Memory) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ValidKey(key) {
		return ErrInvalidKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPut != nil {
		return m.FailPut
	}
	m.slots[key] = append([]byte(nil), value...)
	return nil
}

// Delete implements Slots.
func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ValidKey(key) {
		return ErrInvalidKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}
