package index

import (
	"context"
	"sync"

	"github.com/rcomplete/rindex-mcp/pkg/types"
)

// Memory is an in-process Index implementation guarded by a mutex. It is
// the reference implementation for Index semantics and the default store
// for sessions that do not configure a database path.
type Memory struct {
	mu      sync.RWMutex
	order   []string // registration order
	known   map[string]struct{}
	entries map[string]types.PackageInformation
}

// NewMemory creates an empty in-memory index.
func NewMemory() *Memory {
	return &Memory{
		known:   make(map[string]struct{}),
		entries: make(map[string]types.PackageInformation),
	}
}

func (m *Memory) RegisterPackages(_ context.Context, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := m.known[name]; ok {
			continue
		}
		m.known[name] = struct{}{}
		m.order = append(m.order, name)
	}
	return nil
}

func (m *Memory) AllUnindexedPackages(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var pending []string
	for _, name := range m.order {
		if _, ok := m.entries[name]; !ok {
			pending = append(pending, name)
		}
	}
	return pending, nil
}

func (m *Memory) HasInformation(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[name]
	return ok, nil
}

func (m *Memory) AddPackageInformation(_ context.Context, name string, info types.PackageInformation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.known[name]; !ok {
		m.known[name] = struct{}{}
		m.order = append(m.order, name)
	}
	m.entries[name] = info
	return nil
}

func (m *Memory) GetPackage(_ context.Context, name string) (*types.PackageInformation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.entries[name]
	if !ok {
		return nil, ErrNotFound
	}
	return &info, nil
}

func (m *Memory) ListPackages(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names, nil
}

func (m *Memory) Stats(_ context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &Stats{TotalPackages: len(m.order)}
	for _, info := range m.entries {
		stats.IndexedPackages++
		if info.IsEmpty() {
			stats.EmptyPlaceholders++
		}
	}
	stats.UnindexedPackages = stats.TotalPackages - stats.IndexedPackages
	return stats, nil
}

func (m *Memory) Close() error {
	return nil
}
