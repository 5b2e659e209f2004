package indexing

import (
	"cmp"
	"sync"

	"github.com/google/btree"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

// btreeDegree is the fan-out of every field tree.
const btreeDegree = 32

// wildcardField is the field name used by whole-value (scalar) indexes.
const wildcardField = "*"

// bucket holds every record sharing one scalar value within a field tree.
type bucket[K cmp.Ordered] struct {
	key     K
	entries []domain.Record
}

func lessBucket[K cmp.Ordered](a, b *bucket[K]) bool {
	return cmp.Less(a.key, b.key)
}

// fieldTrees is one tree family: field name -> ordered multimap of
// scalar -> bucket. The family is guarded by a single RWMutex.
type fieldTrees[K cmp.Ordered] struct {
	mu     sync.RWMutex
	fields map[string]*btree.BTreeG[*bucket[K]]
}

func newFieldTrees[K cmp.Ordered]() *fieldTrees[K] {
	return &fieldTrees[K]{fields: make(map[string]*btree.BTreeG[*bucket[K]])}
}

func (t *fieldTrees[K]) insertIndex(field string, value K, key string, doc interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.insertLocked(field, value, key, doc)
}

func (t *fieldTrees[K]) insertLocked(field string, value K, key string, doc interface{}) {
	tree, ok := t.fields[field]
	if !ok {
		tree = btree.NewG[*bucket[K]](btreeDegree, lessBucket[K])
		t.fields[field] = tree
	}
	b, ok := tree.Get(&bucket[K]{key: value})
	if !ok {
		b = &bucket[K]{key: value}
		tree.ReplaceOrInsert(b)
	}
	b.entries = append(b.entries, domain.Record{Key: key, Value: doc})
}

// removeIndex drops key from the bucket for value. Empty buckets and empty
// field trees are removed so churn does not grow the trees.
func (t *fieldTrees[K]) removeIndex(field string, value K, key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tree, ok := t.fields[field]
	if !ok {
		return
	}
	b, ok := tree.Get(&bucket[K]{key: value})
	if !ok {
		return
	}
	for i, e := range b.entries {
		if e.Key == key {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			break
		}
	}
	if len(b.entries) == 0 {
		tree.Delete(b)
	}
	if tree.Len() == 0 {
		delete(t.fields, field)
	}
}

func (t *fieldTrees[K]) clearLocked() {
	t.fields = make(map[string]*btree.BTreeG[*bucket[K]])
}

// eq returns the bucket for value, or nil.
func (t *fieldTrees[K]) eq(field string, value K) []domain.Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tree, ok := t.fields[field]
	if !ok {
		return nil
	}
	b, ok := tree.Get(&bucket[K]{key: value})
	if !ok {
		return nil
	}
	return cloneEntries(nil, b.entries)
}

// lt collects every bucket strictly below value.
func (t *fieldTrees[K]) lt(field string, value K) []domain.Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tree, ok := t.fields[field]
	if !ok {
		return nil
	}
	var out []domain.Record
	tree.AscendLessThan(&bucket[K]{key: value}, func(b *bucket[K]) bool {
		out = cloneEntries(out, b.entries)
		return true
	})
	return out
}

// gt collects every bucket strictly above value.
func (t *fieldTrees[K]) gt(field string, value K) []domain.Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tree, ok := t.fields[field]
	if !ok {
		return nil
	}
	var out []domain.Record
	tree.AscendGreaterOrEqual(&bucket[K]{key: value}, func(b *bucket[K]) bool {
		if cmp.Compare(b.key, value) == 0 {
			return true
		}
		out = cloneEntries(out, b.entries)
		return true
	})
	return out
}

// scanFrom visits buckets in ascending order starting at from (or at the
// smallest key when all is true) until visit returns false.
func (t *fieldTrees[K]) scanFrom(field string, from K, all bool, visit func(b *bucket[K]) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tree, ok := t.fields[field]
	if !ok {
		return
	}
	if all {
		tree.Ascend(visit)
		return
	}
	tree.AscendGreaterOrEqual(&bucket[K]{key: from}, visit)
}

// snapshot flattens a field tree to (scalar, keys) pairs in order.
func (t *fieldTrees[K]) snapshot(field string) []bucketView[K] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tree, ok := t.fields[field]
	if !ok {
		return nil
	}
	out := make([]bucketView[K], 0, tree.Len())
	tree.Ascend(func(b *bucket[K]) bool {
		keys := make([]string, len(b.entries))
		for i, e := range b.entries {
			keys[i] = e.Key
		}
		out = append(out, bucketView[K]{Value: b.key, Keys: keys})
		return true
	})
	return out
}

// fieldNames lists the fields that currently have a tree.
func (t *fieldTrees[K]) fieldNames() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.fields))
	for name := range t.fields {
		names = append(names, name)
	}
	return names
}

// bucketView is a read-only copy of one bucket.
type bucketView[K cmp.Ordered] struct {
	Value K
	Keys  []string
}

func cloneEntries(dst, entries []domain.Record) []domain.Record {
	for _, e := range entries {
		dst = append(dst, domain.Record{Key: e.Key, Value: domain.Clone(e.Value)})
	}
	return dst
}
