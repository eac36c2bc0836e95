package testutil

import (
	"context"
	"fmt"
	"sync"

	keystoreDomain "github.com/allisson/keystore/internal/keystore/domain"
)

// MemoryRecordRepository is an in-memory record repository with the same write
// conditions as the real ones: Put overwrites, PutIfAbsent fails with
// ErrRecordExists when the name and version are taken.
type MemoryRecordRepository struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]keystoreDomain.Item
}

// NewMemoryRecordRepository creates an empty repository.
func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{
		tables: make(map[string]map[string]map[string]keystoreDomain.Item),
	}
}

func (m *MemoryRecordRepository) versions(table, name string) map[string]keystoreDomain.Item {
	names, ok := m.tables[table]
	if !ok {
		names = make(map[string]map[string]keystoreDomain.Item)
		m.tables[table] = names
	}
	versions, ok := names[name]
	if !ok {
		versions = make(map[string]keystoreDomain.Item)
		names[name] = versions
	}
	return versions
}

// Put stores item, replacing any item with the same name and version.
func (m *MemoryRecordRepository) Put(_ context.Context, table string, item keystoreDomain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.versions(table, item.ParameterName)[item.Version] = item
	return nil
}

// PutIfAbsent stores item unless its name and version already exist.
func (m *MemoryRecordRepository) PutIfAbsent(_ context.Context, table string, item keystoreDomain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	versions := m.versions(table, item.ParameterName)
	if _, ok := versions[item.Version]; ok {
		return fmt.Errorf("%w: %s version %s", keystoreDomain.ErrRecordExists, item.ParameterName, item.Version)
	}
	versions[item.Version] = item
	return nil
}

// GetByVersion returns the item stored under name and version.
func (m *MemoryRecordRepository) GetByVersion(
	_ context.Context,
	table, name, version string,
) (keystoreDomain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.tables[table][name][version]
	if !ok {
		return keystoreDomain.Item{}, keystoreDomain.ErrKeyNotFound
	}
	return item, nil
}

// GetLatest returns the highest-versioned item stored under name.
func (m *MemoryRecordRepository) GetLatest(_ context.Context, table, name string) (keystoreDomain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]keystoreDomain.Item, 0, len(m.tables[table][name]))
	for _, item := range m.tables[table][name] {
		items = append(items, item)
	}

	latest, ok := keystoreDomain.LatestItem(items)
	if !ok {
		return keystoreDomain.Item{}, keystoreDomain.ErrKeyNotFound
	}
	return latest, nil
}

// Len returns the number of items stored in table.
func (m *MemoryRecordRepository) Len(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, versions := range m.tables[table] {
		n += len(versions)
	}
	return n
}
