package storage

import (
	"context"
	"fmt"
	"sort"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
	"github.com/adfharrison1/go-jsonindex/pkg/indexing"
)

// Insert upserts a record into the named index
func (se *StorageEngine) Insert(name, key string, value interface{}) (domain.WriteResult, error) {
	idx, err := se.getIndex(name)
	if err != nil {
		return 0, err
	}
	result := idx.Insert(key, value)
	if result == domain.Applied {
		se.markDirty(name)
	}
	return result, nil
}

// Get returns a copy of the value stored under key
func (se *StorageEngine) Get(name, key string) (interface{}, error) {
	idx, err := se.getIndex(name)
	if err != nil {
		return nil, err
	}
	v, ok := idx.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s in index %s", domain.ErrRecordNotFound, key, name)
	}
	return v, nil
}

// Remove deletes key from the named index, reporting whether it existed
func (se *StorageEngine) Remove(name, key string) (bool, error) {
	idx, err := se.getIndex(name)
	if err != nil {
		return false, err
	}
	removed := idx.Remove(key)
	if removed {
		se.markDirty(name)
	}
	return removed, nil
}

// Records returns one page of records in index order
func (se *StorageEngine) Records(name string, po *domain.PaginationOptions) (*domain.PaginationResult, error) {
	idx, err := se.getIndex(name)
	if err != nil {
		return nil, err
	}
	if po == nil {
		po = domain.DefaultPaginationOptions()
	}
	if err := po.Validate(); err != nil {
		return nil, err
	}
	return domain.Paginate(idx.Records(), po), nil
}

// RecordsStream streams every record of the named index in order. The
// channel closes when all records are sent or ctx is done.
func (se *StorageEngine) RecordsStream(ctx context.Context, name string) (<-chan domain.Record, error) {
	idx, err := se.getIndex(name)
	if err != nil {
		return nil, err
	}
	out := make(chan domain.Record, 100)
	go func() {
		defer close(out)
		idx.ForEach(func(key string, value interface{}) bool {
			select {
			case out <- domain.Record{Key: key, Value: value}:
				return true
			case <-ctx.Done():
				return false
			}
		})
	}()
	return out, nil
}

// Batch stages ops against the named index and commits them. Keys are staged
// in sorted order so the result does not depend on map iteration.
func (se *StorageEngine) Batch(name string, ops domain.BatchOps) (domain.BatchStats, error) {
	idx, err := se.getIndex(name)
	if err != nil {
		return domain.BatchStats{}, err
	}
	stats, err := idx.Batch(func(b *indexing.Batch) error {
		for _, key := range sortedKeys(ops.Inserts) {
			if _, err := b.Insert(key, ops.Inserts[key]); err != nil {
				return err
			}
		}
		for _, key := range sortedKeys(ops.Updates) {
			if _, err := b.Update(key, ops.Updates[key]); err != nil {
				return err
			}
		}
		for _, key := range ops.Deletes {
			if err := b.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}
	if stats.Inserted+stats.Updated+stats.Deleted > 0 {
		se.markDirty(name)
	}
	return stats, nil
}

// FindWhere queries the named index. With OrderBy the matches are re-sorted
// by that config; otherwise a limit re-sorts by the index's own config first.
func (se *StorageEngine) FindWhere(name string, q domain.Query) ([]domain.Record, error) {
	idx, err := se.getIndex(name)
	if err != nil {
		return nil, err
	}
	res, err := idx.FindWhere(q.Field, q.Op, q.Value)
	if err != nil {
		return nil, err
	}
	if q.OrderBy == nil && q.Limit <= 0 {
		return res.Records(), nil
	}
	config := idx.Config()
	if q.OrderBy != nil {
		if err := q.OrderBy.Validate(); err != nil {
			return nil, err
		}
		config = *q.OrderBy
	}
	ordered := res.OrderBy(config)
	if q.Limit > 0 {
		ordered.Limit(q.Limit)
	}
	return ordered.Records(), nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
