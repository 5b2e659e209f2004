package domain

import "context"

// Query is a single find_where request against a named index, with an
// optional re-sort and truncation of the result.
type Query struct {
	Field   string
	Op      Operator
	Value   interface{}
	OrderBy *IndexConfig
	Limit   int
}

// BatchOps stages the writes of one batch.
type BatchOps struct {
	Inserts map[string]interface{} `json:"inserts,omitempty"`
	Updates map[string]interface{} `json:"updates,omitempty"`
	Deletes []string               `json:"deletes,omitempty"`
}

// IndexEngine defines the interface for managing named indexes
type IndexEngine interface {
	CreateIndex(name string, config IndexConfig) error
	DropIndex(name string) error
	GetIndexes() []IndexInfo
	GetIndexInfo(name string) (IndexInfo, error)
}

// StorageEngine defines the interface for record and query operations over
// named indexes. This is the core business interface the HTTP layer consumes.
type StorageEngine interface {
	IndexEngine
	Insert(name, key string, value interface{}) (WriteResult, error)
	Get(name, key string) (interface{}, error)
	Remove(name, key string) (bool, error)
	Records(name string, po *PaginationOptions) (*PaginationResult, error)
	RecordsStream(ctx context.Context, name string) (<-chan Record, error)
	Batch(name string, ops BatchOps) (BatchStats, error)
	FindWhere(name string, q Query) ([]Record, error)
	SaveIndexAfterTransaction(name string) error
	SaveToFile(filename string) error
	LoadFromFile(filename string) error
	GetMemoryStats() map[string]interface{}
	StartBackgroundWorkers()
	StopBackgroundWorkers()
}
