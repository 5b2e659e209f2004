package indexing

import "runtime"

// defaultParallelThreshold is the record count below which builds, sorts and
// iteration stay on the calling goroutine.
const defaultParallelThreshold = 2048

type indexOptions struct {
	workers             int
	parallelThreshold   int
	caseInsensitiveLike bool
}

// IndexOption configures an Index.
type IndexOption func(*indexOptions)

// WithWorkers bounds the worker pool used for builds, sorts and parallel
// iteration. Values below 1 fall back to GOMAXPROCS.
func WithWorkers(n int) IndexOption {
	return func(o *indexOptions) {
		o.workers = n
	}
}

// WithParallelThreshold sets the record count from which work fans out.
func WithParallelThreshold(n int) IndexOption {
	return func(o *indexOptions) {
		o.parallelThreshold = n
	}
}

// WithCaseInsensitiveLike makes LIKE patterns match regardless of case.
// Prefix pruning is disabled in this mode.
func WithCaseInsensitiveLike(enabled bool) IndexOption {
	return func(o *indexOptions) {
		o.caseInsensitiveLike = enabled
	}
}

func newIndexOptions(opts []IndexOption) indexOptions {
	o := indexOptions{
		workers:           runtime.GOMAXPROCS(0),
		parallelThreshold: defaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.parallelThreshold < 1 {
		o.parallelThreshold = 1
	}
	return o
}

// asOptions turns resolved options back into IndexOption values so derived
// indexes (clones, and_then results) behave like their source.
func (o indexOptions) asOptions() []IndexOption {
	return []IndexOption{
		WithWorkers(o.workers),
		WithParallelThreshold(o.parallelThreshold),
		WithCaseInsensitiveLike(o.caseInsensitiveLike),
	}
}
