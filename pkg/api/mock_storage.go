package api

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

type mockIndex struct {
	config  domain.IndexConfig
	records map[string]interface{}
}

// MockStorageEngine provides a mock implementation of domain.StorageEngine for testing.
// Records are kept in key order and FindWhere only supports equality.
type MockStorageEngine struct {
	mu          sync.RWMutex
	indexes     map[string]*mockIndex
	insertCalls int
	findCalls   int
	streamCalls int
	batchCalls  int
	saveCalls   int
	lastQuery   domain.Query
}

// NewMockStorageEngine creates a new mock storage engine
func NewMockStorageEngine() *MockStorageEngine {
	return &MockStorageEngine{
		indexes: make(map[string]*mockIndex),
	}
}

func (m *MockStorageEngine) index(name string) (*mockIndex, error) {
	idx, ok := m.indexes[name]
	if !ok {
		return nil, &domain.IndexNotFoundError{Name: name}
	}
	return idx, nil
}

// CreateIndex registers an empty index
func (m *MockStorageEngine) CreateIndex(name string, config domain.IndexConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := config.Validate(); err != nil {
		return err
	}
	if _, exists := m.indexes[name]; exists {
		return fmt.Errorf("%w: %s", domain.ErrIndexExists, name)
	}
	m.indexes[name] = &mockIndex{config: config, records: make(map[string]interface{})}
	return nil
}

// DropIndex removes an index
func (m *MockStorageEngine) DropIndex(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.index(name); err != nil {
		return err
	}
	delete(m.indexes, name)
	return nil
}

// GetIndexes lists indexes by name
func (m *MockStorageEngine) GetIndexes() []domain.IndexInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.IndexInfo, 0, len(m.indexes))
	for name, idx := range m.indexes {
		out = append(out, domain.IndexInfo{Name: name, Config: idx.config, Size: len(idx.records)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GetIndexInfo describes one index
func (m *MockStorageEngine) GetIndexInfo(name string) (domain.IndexInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, err := m.index(name)
	if err != nil {
		return domain.IndexInfo{}, err
	}
	return domain.IndexInfo{Name: name, Config: idx.config, Size: len(idx.records)}, nil
}

// Insert stores value under key. Strings are rejected by non-string scalar
// indexes so handlers can exercise the rejected path.
func (m *MockStorageEngine) Insert(name, key string, value interface{}) (domain.WriteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insertCalls++
	idx, err := m.index(name)
	if err != nil {
		return 0, err
	}
	if _, isString := value.(string); isString && idx.config.Kind != domain.ConfigString && idx.config.Kind != domain.ConfigJSON {
		return domain.Rejected, nil
	}
	idx.records[key] = value
	return domain.Applied, nil
}

// Get returns the value under key
func (m *MockStorageEngine) Get(name, key string) (interface{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, err := m.index(name)
	if err != nil {
		return nil, err
	}
	v, ok := idx.records[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, key)
	}
	return v, nil
}

// Remove deletes key
func (m *MockStorageEngine) Remove(name, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, err := m.index(name)
	if err != nil {
		return false, err
	}
	_, ok := idx.records[key]
	delete(idx.records, key)
	return ok, nil
}

func (m *MockStorageEngine) sorted(idx *mockIndex) []domain.Record {
	keys := make([]string, 0, len(idx.records))
	for k := range idx.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]domain.Record, len(keys))
	for i, k := range keys {
		out[i] = domain.Record{Key: k, Value: idx.records[k]}
	}
	return out
}

// Records pages through records in key order
func (m *MockStorageEngine) Records(name string, po *domain.PaginationOptions) (*domain.PaginationResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, err := m.index(name)
	if err != nil {
		return nil, err
	}
	return domain.Paginate(m.sorted(idx), po), nil
}

// RecordsStream streams records in key order
func (m *MockStorageEngine) RecordsStream(ctx context.Context, name string) (<-chan domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.streamCalls++
	idx, err := m.index(name)
	if err != nil {
		return nil, err
	}
	records := m.sorted(idx)
	out := make(chan domain.Record)
	go func() {
		defer close(out)
		for _, r := range records {
			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Batch applies ops directly
func (m *MockStorageEngine) Batch(name string, ops domain.BatchOps) (domain.BatchStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.batchCalls++
	idx, err := m.index(name)
	if err != nil {
		return domain.BatchStats{}, err
	}
	var stats domain.BatchStats
	for k, v := range ops.Inserts {
		idx.records[k] = v
		stats.Inserted++
	}
	for k, v := range ops.Updates {
		if _, ok := idx.records[k]; ok {
			idx.records[k] = v
			stats.Updated++
		}
	}
	for _, k := range ops.Deletes {
		if _, ok := idx.records[k]; ok {
			delete(idx.records, k)
			stats.Deleted++
		}
	}
	return stats, nil
}

// FindWhere supports equality on a path and rejects other operators
func (m *MockStorageEngine) FindWhere(name string, q domain.Query) ([]domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.findCalls++
	m.lastQuery = q
	idx, err := m.index(name)
	if err != nil {
		return nil, err
	}
	if q.Op != domain.OpEQ {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedOperator, q.Op)
	}
	path := q.Field
	if path == "*" {
		path = ""
	}
	var out []domain.Record
	for _, r := range m.sorted(idx) {
		if domain.ScalarOf(domain.GetPath(r.Value, path)) == domain.ScalarOf(q.Value) {
			out = append(out, r)
		}
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// SaveIndexAfterTransaction counts calls
func (m *MockStorageEngine) SaveIndexAfterTransaction(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	return nil
}

// SaveToFile is a mock implementation
func (m *MockStorageEngine) SaveToFile(filename string) error {
	return nil
}

// LoadFromFile is a mock implementation
func (m *MockStorageEngine) LoadFromFile(filename string) error {
	return nil
}

// GetMemoryStats returns memory statistics
func (m *MockStorageEngine) GetMemoryStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := 0
	for _, idx := range m.indexes {
		records += len(idx.records)
	}
	return map[string]interface{}{
		"indexes": len(m.indexes),
		"records": records,
	}
}

// StartBackgroundWorkers is a mock implementation
func (m *MockStorageEngine) StartBackgroundWorkers() {}

// StopBackgroundWorkers is a mock implementation
func (m *MockStorageEngine) StopBackgroundWorkers() {}

// GetInsertCalls returns the number of insert calls
func (m *MockStorageEngine) GetInsertCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.insertCalls
}

// GetFindCalls returns the number of find calls
func (m *MockStorageEngine) GetFindCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findCalls
}

// GetStreamCalls returns the number of stream calls
func (m *MockStorageEngine) GetStreamCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.streamCalls
}

// GetSaveCalls returns the number of post-write saves
func (m *MockStorageEngine) GetSaveCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saveCalls
}

// LastQuery returns the query of the most recent FindWhere call
func (m *MockStorageEngine) LastQuery() domain.Query {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQuery
}
