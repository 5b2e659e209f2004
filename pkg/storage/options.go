package storage

import (
	"time"

	"github.com/adfharrison1/go-jsonindex/pkg/indexing"
)

type StorageOption func(*StorageEngine)

func WithDataDir(dir string) StorageOption {
	return func(engine *StorageEngine) {
		engine.dataDir = dir
	}
}

func WithBackgroundSave(interval time.Duration) StorageOption {
	return func(engine *StorageEngine) {
		engine.backgroundSave = true
		engine.saveInterval = interval
		engine.transactionSave = false // Disable transaction saves when background saves are enabled
	}
}

// WithTransactionSave enables saving after every write transaction (default: true)
func WithTransactionSave(enabled bool) StorageOption {
	return func(engine *StorageEngine) {
		engine.transactionSave = enabled
	}
}

// WithDataDirAndTransactionSave is a convenience option for setting both data directory and transaction saves
func WithDataDirAndTransactionSave(dir string, transactionSave bool) StorageOption {
	return func(engine *StorageEngine) {
		engine.dataDir = dir
		engine.transactionSave = transactionSave
	}
}

// WithIndexOptions sets the options every index in the catalog is created with
func WithIndexOptions(opts ...indexing.IndexOption) StorageOption {
	return func(engine *StorageEngine) {
		engine.indexOptions = append(engine.indexOptions, opts...)
	}
}
