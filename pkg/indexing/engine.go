package indexing

import (
	"fmt"
	"sort"
	"sync"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

// IndexEngine implements domain.IndexEngine: a registry of named indexes
type IndexEngine struct {
	mu      sync.RWMutex
	indexes map[string]*Index
	opts    []IndexOption
}

// NewIndexEngine creates a new index engine. opts apply to every index it creates.
func NewIndexEngine(opts ...IndexOption) *IndexEngine {
	return &IndexEngine{
		indexes: make(map[string]*Index),
		opts:    opts,
	}
}

// CreateIndex creates an empty index under name
func (ie *IndexEngine) CreateIndex(name string, config domain.IndexConfig) error {
	if name == "" {
		return fmt.Errorf("%w: index name is required", domain.ErrInvalidConfig)
	}
	idx, err := New(config, ie.opts...)
	if err != nil {
		return err
	}

	ie.mu.Lock()
	defer ie.mu.Unlock()
	if _, exists := ie.indexes[name]; exists {
		return fmt.Errorf("%w: %s", domain.ErrIndexExists, name)
	}
	ie.indexes[name] = idx
	return nil
}

// DropIndex removes a named index
func (ie *IndexEngine) DropIndex(name string) error {
	ie.mu.Lock()
	defer ie.mu.Unlock()
	if _, exists := ie.indexes[name]; !exists {
		return &domain.IndexNotFoundError{Name: name}
	}
	delete(ie.indexes, name)
	return nil
}

// GetIndex returns the named index
func (ie *IndexEngine) GetIndex(name string) (*Index, error) {
	ie.mu.RLock()
	defer ie.mu.RUnlock()
	idx, exists := ie.indexes[name]
	if !exists {
		return nil, &domain.IndexNotFoundError{Name: name}
	}
	return idx, nil
}

// GetIndexInfo describes the named index
func (ie *IndexEngine) GetIndexInfo(name string) (domain.IndexInfo, error) {
	idx, err := ie.GetIndex(name)
	if err != nil {
		return domain.IndexInfo{}, err
	}
	return domain.IndexInfo{Name: name, Config: idx.Config(), Size: idx.Size()}, nil
}

// GetIndexes describes every index, sorted by name
func (ie *IndexEngine) GetIndexes() []domain.IndexInfo {
	ie.mu.RLock()
	defer ie.mu.RUnlock()
	infos := make([]domain.IndexInfo, 0, len(ie.indexes))
	for name, idx := range ie.indexes {
		infos = append(infos, domain.IndexInfo{Name: name, Config: idx.Config(), Size: idx.Size()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// ExportIndexes encodes every index for persistence
func (ie *IndexEngine) ExportIndexes() (map[string][]byte, error) {
	ie.mu.RLock()
	defer ie.mu.RUnlock()
	out := make(map[string][]byte, len(ie.indexes))
	for name, idx := range ie.indexes {
		b, err := idx.ToBytes()
		if err != nil {
			return nil, fmt.Errorf("failed to export index %s: %w", name, err)
		}
		out[name] = b
	}
	return out, nil
}

// ImportIndexes decodes persisted indexes and replaces any with the same name
func (ie *IndexEngine) ImportIndexes(data map[string][]byte) error {
	decoded := make(map[string]*Index, len(data))
	for name, b := range data {
		idx, err := FromBytes(b, ie.opts...)
		if err != nil {
			return fmt.Errorf("failed to import index %s: %w", name, err)
		}
		decoded[name] = idx
	}

	ie.mu.Lock()
	defer ie.mu.Unlock()
	for name, idx := range decoded {
		ie.indexes[name] = idx
	}
	return nil
}
