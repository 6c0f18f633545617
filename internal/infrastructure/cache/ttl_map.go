package cache

import (
	"sync"
	"time"
)

type ttlEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// ttlMap is a mutex-guarded map whose entries expire. A background loop
// sweeps expired entries until Close is called.
type ttlMap[V any] struct {
	mu        sync.RWMutex
	entries   map[string]ttlEntry[V]
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func newTTLMap[V any](sweepEvery time.Duration) *ttlMap[V] {
	m := &ttlMap[V]{
		entries:  make(map[string]ttlEntry[V]),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	m.wg.Add(1)
	go m.sweepLoop(sweepEvery)
	return m
}

func (m *ttlMap[V]) get(key string) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || !m.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (m *ttlMap[V]) set(key string, value V, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = ttlEntry[V]{value: value, expiresAt: m.now().Add(ttl)}
}

// setIfAbsent stores value unless a live entry exists; it reports whether it stored
func (m *ttlMap[V]) setIfAbsent(key string, value V, ttl time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if e, ok := m.entries[key]; ok && now.Before(e.expiresAt) {
		return false
	}
	m.entries[key] = ttlEntry[V]{value: value, expiresAt: now.Add(ttl)}
	return true
}

func (m *ttlMap[V]) delete(keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
}

func (m *ttlMap[V]) size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *ttlMap[V]) close() {
	m.closeOnce.Do(func() {
		close(m.stopChan)
		m.wg.Wait()
	})
}

func (m *ttlMap[V]) sweepLoop(every time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *ttlMap[V]) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}
