package indexing

import (
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

// forEachChunk splits [0,n) into contiguous chunks and runs fn on each,
// on up to workers goroutines. Small inputs run on the caller.
func forEachChunk(n, workers, threshold int, fn func(lo, hi int) error) error {
	if n == 0 {
		return nil
	}
	if n < threshold || workers <= 1 {
		return fn(0, n)
	}
	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			return fn(lo, hi)
		})
	}
	return g.Wait()
}

// sortRecords stably sorts records by the config's comparator. Sort keys
// are extracted once per record, in parallel for large inputs.
func sortRecords(config domain.IndexConfig, records []domain.Record, o indexOptions) {
	if len(records) < 2 {
		return
	}
	type keyed struct {
		key    sortKey
		record domain.Record
	}
	items := make([]keyed, len(records))
	_ = forEachChunk(len(records), o.workers, o.parallelThreshold, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			items[i] = keyed{key: keyOf(config, records[i].Value), record: records[i]}
		}
		return nil
	})
	slices.SortStableFunc(items, func(a, b keyed) int {
		return compareKeys(config, a.key, b.key)
	})
	for i := range items {
		records[i] = items[i].record
	}
}
