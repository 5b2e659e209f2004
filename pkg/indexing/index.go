package indexing

import (
	"fmt"
	"sync"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

// Index is a sorted, queryable view over a keyed collection of documents.
// The primary store and the three secondary tree families are locked
// independently; once Build returns and no write is in flight, all four agree.
// Writers are serialised by wmu so a store update and its tree update are
// never interleaved with another write.
// An *Index may be shared between goroutines. Clone produces an isolated copy.
type Index struct {
	config domain.IndexConfig
	opts   indexOptions

	wmu sync.Mutex

	store  *primaryStore
	ints   *fieldTrees[int64]
	floats *fieldTrees[float64]
	strs   *fieldTrees[string]
}

// fieldEntry is one (field, scalar) pair a record contributes to the trees.
type fieldEntry struct {
	field  string
	scalar domain.Scalar
}

// New creates an empty index.
func New(config domain.IndexConfig, opts ...IndexOption) (*Index, error) {
	return NewWithRecords(config, nil, opts...)
}

// NewWithRecords creates an index over an existing collection. Records the
// config does not accept are dropped; a repeated key keeps its last value.
func NewWithRecords(config domain.IndexConfig, records []domain.Record, opts ...IndexOption) (*Index, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	accepted := filterRecords(config, records)
	for i := range accepted {
		accepted[i].Value = domain.Clone(accepted[i].Value)
	}
	idx := &Index{
		config: config.Clone(),
		opts:   newIndexOptions(opts),
		store:  newPrimaryStore(accepted),
		ints:   newFieldTrees[int64](),
		floats: newFieldTrees[float64](),
		strs:   newFieldTrees[string](),
	}
	idx.store.sort(idx.config, idx.opts)
	if err := idx.build(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Config returns a copy of the index configuration.
func (idx *Index) Config() domain.IndexConfig {
	return idx.config.Clone()
}

// Insert upserts key if value passes the type filter. A rejected value leaves
// the index untouched and reports Rejected; it is not an error.
func (idx *Index) Insert(key string, value interface{}) domain.WriteResult {
	if !Accepts(idx.config, value) {
		return domain.Rejected
	}
	value = domain.Clone(value)
	idx.wmu.Lock()
	defer idx.wmu.Unlock()
	old, existed := idx.store.upsert(key, value)
	if existed {
		idx.unindex(key, old)
	}
	idx.index(key, value)
	idx.store.sort(idx.config, idx.opts)
	return domain.Applied
}

// Remove deletes key and strips it from every tree it populated. It reports
// whether the key was present.
func (idx *Index) Remove(key string) bool {
	idx.wmu.Lock()
	defer idx.wmu.Unlock()
	old, ok := idx.store.remove(key)
	if !ok {
		return false
	}
	idx.unindex(key, old)
	return true
}

// Get returns a copy of the value stored under key.
func (idx *Index) Get(key string) (interface{}, bool) {
	v, ok := idx.store.get(key)
	if !ok {
		return nil, false
	}
	return domain.Clone(v), true
}

// Size returns the number of records.
func (idx *Index) Size() int {
	return idx.store.size()
}

// Records returns copies of all records in sort order.
func (idx *Index) Records() []domain.Record {
	return domain.CloneRecords(idx.store.snapshot())
}

// ForEach calls fn for each record in sort order until fn returns false.
// fn receives copies and may not observe writes made during iteration.
func (idx *Index) ForEach(fn func(key string, value interface{}) bool) {
	for _, r := range idx.store.snapshot() {
		if !fn(r.Key, domain.Clone(r.Value)) {
			return
		}
	}
}

// ParallelForEach calls fn for every record on the index worker pool. The
// first error stops scheduling further chunks and is returned.
func (idx *Index) ParallelForEach(fn func(key string, value interface{}) error) error {
	records := idx.store.snapshot()
	return forEachChunk(len(records), idx.opts.workers, idx.opts.parallelThreshold, func(lo, hi int) error {
		for _, r := range records[lo:hi] {
			if err := fn(r.Key, domain.Clone(r.Value)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Clone returns a deep, independently locked copy of the index.
func (idx *Index) Clone() (*Index, error) {
	return NewWithRecords(idx.config, idx.store.snapshot(), idx.opts.asOptions()...)
}

// Build clears the secondary trees and regenerates them from the primary
// store. Field extraction fans out across the worker pool; insertion happens
// in store order so bucket contents are deterministic.
func (idx *Index) Build() error {
	idx.wmu.Lock()
	defer idx.wmu.Unlock()
	return idx.build()
}

func (idx *Index) build() error {
	records := idx.store.snapshot()
	entries := make([][]fieldEntry, len(records))
	err := forEachChunk(len(records), idx.opts.workers, idx.opts.parallelThreshold, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			entries[i] = idx.fieldEntries(records[i].Value)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to extract index fields: %w", err)
	}

	idx.ints.mu.Lock()
	defer idx.ints.mu.Unlock()
	idx.floats.mu.Lock()
	defer idx.floats.mu.Unlock()
	idx.strs.mu.Lock()
	defer idx.strs.mu.Unlock()

	idx.ints.clearLocked()
	idx.floats.clearLocked()
	idx.strs.clearLocked()
	for i, r := range records {
		for _, e := range entries[i] {
			switch e.scalar.Kind {
			case domain.KindInt:
				idx.ints.insertLocked(e.field, e.scalar.Int, r.Key, r.Value)
			case domain.KindFloat:
				idx.floats.insertLocked(e.field, e.scalar.Float, r.Key, r.Value)
			case domain.KindString:
				idx.strs.insertLocked(e.field, e.scalar.Str, r.Key, r.Value)
			}
		}
	}
	return nil
}

// fieldEntries resolves the (field, scalar) pairs value contributes: one per
// distinct json path with a scalar value, or ("*", value) for scalar indexes.
func (idx *Index) fieldEntries(value interface{}) []fieldEntry {
	if idx.config.Kind != domain.ConfigJSON {
		s := domain.ScalarOf(value)
		if s.Kind == domain.KindNone {
			return nil
		}
		return []fieldEntry{{field: wildcardField, scalar: s}}
	}
	out := make([]fieldEntry, 0, len(idx.config.PathOrders))
	for i, po := range idx.config.PathOrders {
		if seenPath(idx.config.PathOrders[:i], po.Path) {
			continue
		}
		s := domain.ScalarOf(domain.GetPath(value, po.Path))
		if s.Kind == domain.KindNone {
			continue
		}
		out = append(out, fieldEntry{field: po.Path, scalar: s})
	}
	return out
}

func seenPath(orders []domain.PathOrder, path string) bool {
	for _, po := range orders {
		if po.Path == path {
			return true
		}
	}
	return false
}

func (idx *Index) index(key string, value interface{}) {
	for _, e := range idx.fieldEntries(value) {
		switch e.scalar.Kind {
		case domain.KindInt:
			idx.ints.insertIndex(e.field, e.scalar.Int, key, value)
		case domain.KindFloat:
			idx.floats.insertIndex(e.field, e.scalar.Float, key, value)
		case domain.KindString:
			idx.strs.insertIndex(e.field, e.scalar.Str, key, value)
		}
	}
}

func (idx *Index) unindex(key string, value interface{}) {
	for _, e := range idx.fieldEntries(value) {
		switch e.scalar.Kind {
		case domain.KindInt:
			idx.ints.removeIndex(e.field, e.scalar.Int, key)
		case domain.KindFloat:
			idx.floats.removeIndex(e.field, e.scalar.Float, key)
		case domain.KindString:
			idx.strs.removeIndex(e.field, e.scalar.Str, key)
		}
	}
}
