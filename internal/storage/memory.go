package storage

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is a process-local Storage; instances do not survive a restart
// and are not shared between replicas.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memEntry
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, entries: map[string]memEntry{}}
}

func (m *Memory) Create(_ context.Context, id string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	m.entries[id] = memEntry{data: b, expiresAt: now.Add(m.ttl)}
	return nil
}

func (m *Memory) Load(_ context.Context, id string, dst any) error {
	m.mu.Lock()
	e, ok := m.live(id)
	m.mu.Unlock()
	if !ok {
		return ErrGone
	}
	return json.Unmarshal(e.data, dst)
}

// Update holds mu from decode to write.
func (m *Memory) Update(_ context.Context, id string, fn Mutator) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(id)
	if !ok {
		return ErrGone
	}
	v, err := fn(func(dst any) error { return json.Unmarshal(e.data, dst) })
	if err != nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.entries[id] = memEntry{data: b, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) Dispose(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// live must be called with mu held.
func (m *Memory) live(id string) (memEntry, bool) {
	e, ok := m.entries[id]
	if !ok {
		return memEntry{}, false
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, id)
		return memEntry{}, false
	}
	return e, true
}
