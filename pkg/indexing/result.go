package indexing

import "github.com/adfharrison1/go-jsonindex/pkg/domain"

// QueryResult is an unordered snapshot of query matches together with the
// config of the index that produced them.
type QueryResult struct {
	config  domain.IndexConfig
	opts    indexOptions
	matches []domain.Record
}

func newQueryResult(config domain.IndexConfig, matches []domain.Record, opts indexOptions) *QueryResult {
	return &QueryResult{config: config.Clone(), opts: opts, matches: matches}
}

// Count returns the number of matches.
func (r *QueryResult) Count() int {
	return len(r.matches)
}

// Config returns the config of the index the result came from.
func (r *QueryResult) Config() domain.IndexConfig {
	return r.config.Clone()
}

// Records returns copies of the matches.
func (r *QueryResult) Records() []domain.Record {
	return domain.CloneRecords(r.matches)
}

// AndThen indexes the result set with the same config so it can be queried
// again. This narrows sequentially; it is not a relational AND.
func (r *QueryResult) AndThen() (*Index, error) {
	return NewWithRecords(r.config, r.matches, r.opts.asOptions()...)
}

// OrderBy sorts a copy of the matches with config's comparator. config may
// differ from the one that produced the result.
func (r *QueryResult) OrderBy(config domain.IndexConfig) *OrderedResult {
	records := domain.CloneRecords(r.matches)
	sortRecords(config, records, r.opts)
	return &OrderedResult{config: config.Clone(), records: records}
}

// OrderedResult is a sorted list of matches.
type OrderedResult struct {
	config  domain.IndexConfig
	records []domain.Record
}

// Limit truncates the result to its first n records in place. Negative n
// is treated as zero.
func (r *OrderedResult) Limit(n int) *OrderedResult {
	if n < 0 {
		n = 0
	}
	if n < len(r.records) {
		r.records = r.records[:n]
	}
	return r
}

// Count returns the number of records.
func (r *OrderedResult) Count() int {
	return len(r.records)
}

// Config returns the config used for sorting.
func (r *OrderedResult) Config() domain.IndexConfig {
	return r.config.Clone()
}

// Records returns copies of the records in order.
func (r *OrderedResult) Records() []domain.Record {
	return domain.CloneRecords(r.records)
}
