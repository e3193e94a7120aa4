// Package persist is the browser-local-storage analogue: a small
// string key-value sink used to keep preference objects and settled
// navigation snapshots across sessions. Values are wrapped in a
// versioned envelope so the schema can evolve.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Predefined error types.
var (
	ErrNotFound        = errors.New("key not found")
	ErrVersionMismatch = errors.New("stored version does not match")
)

// Store is the persistence sink contract. Implementations are expected
// to be cheap; large or hot data does not belong here.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string)
}

// Envelope wraps a persisted state value with its schema version.
type Envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

// Encode marshals v into a versioned envelope payload.
func Encode(version int, v any) (string, error) {
	state, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}

	payload, err := json.Marshal(Envelope{State: state, Version: version})
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}

	return string(payload), nil
}

// Save marshals v into a versioned envelope and writes it under key.
func Save(store Store, key string, version int, v any) error {
	payload, err := Encode(version, v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}

	return store.Set(key, payload)
}

// Load reads the envelope under key and unmarshals its state into out.
// A missing key returns ErrNotFound; a version other than the expected
// one returns ErrVersionMismatch so the caller can decide whether to
// migrate or discard.
func Load(store Store, key string, version int, out any) error {
	raw, ok := store.Get(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	var env Envelope

	err := json.Unmarshal([]byte(raw), &env)
	if err != nil {
		return fmt.Errorf("unmarshal envelope for %q: %w", key, err)
	}

	if env.Version != version {
		return fmt.Errorf("%w: %s: got %d, want %d", ErrVersionMismatch, key, env.Version, version)
	}

	err = json.Unmarshal(env.State, out)
	if err != nil {
		return fmt.Errorf("unmarshal state for %q: %w", key, err)
	}

	return nil
}

// Memory is an in-memory Store. It backs tests and headless tooling.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.values[key]

	return val, ok
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value

	return nil
}

func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.values)
}
