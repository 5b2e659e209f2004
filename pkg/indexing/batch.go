package indexing

import (
	"fmt"
	"sync"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

// Batch stages inserts, updates and deletes and applies them together,
// followed by one full rebuild. Commit is not atomic: each staged write takes
// the store lock separately, so concurrent readers can observe a partially
// applied batch. Callers that need atomicity serialise around Commit.
type Batch struct {
	idx *Index

	mu       sync.Mutex
	inserts  map[string]interface{}
	order    []string
	updates  map[string]interface{}
	uorder   []string
	deletes  map[string]struct{}
	dorder   []string
	rejected int
	closed   bool
}

// Begin starts a batch against idx.
func (idx *Index) Begin() *Batch {
	return &Batch{
		idx:     idx,
		inserts: make(map[string]interface{}),
		updates: make(map[string]interface{}),
		deletes: make(map[string]struct{}),
	}
}

// Batch runs fn against a new batch and commits it when fn returns nil. Any
// error from fn discards the staged writes.
func (idx *Index) Batch(fn func(b *Batch) error) (domain.BatchStats, error) {
	b := idx.Begin()
	if err := fn(b); err != nil {
		b.Discard()
		return domain.BatchStats{}, err
	}
	return b.Commit()
}

// Insert stages an upsert. A value the type filter rejects is dropped and
// reported as Rejected. Re-inserting a key overwrites the staged value.
func (b *Batch) Insert(key string, value interface{}) (domain.WriteResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, domain.ErrBatchClosed
	}
	if !Accepts(b.idx.config, value) {
		b.rejected++
		return domain.Rejected, nil
	}
	if _, ok := b.inserts[key]; !ok {
		b.order = append(b.order, key)
	}
	b.inserts[key] = domain.Clone(value)
	return domain.Applied, nil
}

// Update stages a replacement that only applies if key exists at commit.
func (b *Batch) Update(key string, value interface{}) (domain.WriteResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, domain.ErrBatchClosed
	}
	if !Accepts(b.idx.config, value) {
		b.rejected++
		return domain.Rejected, nil
	}
	if _, ok := b.updates[key]; !ok {
		b.uorder = append(b.uorder, key)
	}
	b.updates[key] = domain.Clone(value)
	return domain.Applied, nil
}

// Delete stages the removal of key. Absent keys are a no-op at commit.
func (b *Batch) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return domain.ErrBatchClosed
	}
	if _, ok := b.deletes[key]; !ok {
		b.dorder = append(b.dorder, key)
		b.deletes[key] = struct{}{}
	}
	return nil
}

// Commit applies staged inserts, then updates of existing keys, then
// deletes, clears the batch, re-sorts the store and rebuilds the trees.
// Other writers on the index wait until the rebuild finishes.
func (b *Batch) Commit() (domain.BatchStats, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return domain.BatchStats{}, domain.ErrBatchClosed
	}
	b.idx.wmu.Lock()
	defer b.idx.wmu.Unlock()

	stats := domain.BatchStats{Rejected: b.rejected}
	store := b.idx.store
	for _, key := range b.order {
		store.upsert(key, b.inserts[key])
		stats.Inserted++
	}
	for _, key := range b.uorder {
		if _, ok := store.replace(key, b.updates[key]); ok {
			stats.Updated++
		}
	}
	for _, key := range b.dorder {
		if _, ok := store.remove(key); ok {
			stats.Deleted++
		}
	}
	b.closeLocked()

	store.sort(b.idx.config, b.idx.opts)
	if err := b.idx.build(); err != nil {
		return stats, fmt.Errorf("failed to rebuild index after batch: %w", err)
	}
	return stats, nil
}

// Discard drops every staged write. It is safe to call after Commit.
func (b *Batch) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeLocked()
}

// Pending returns the number of staged writes.
func (b *Batch) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.order) + len(b.uorder) + len(b.dorder)
}

func (b *Batch) closeLocked() {
	b.inserts = nil
	b.updates = nil
	b.deletes = nil
	b.order, b.uorder, b.dorder = nil, nil, nil
	b.closed = true
}
