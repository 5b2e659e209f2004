package storage

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

// CreateIndex creates an empty named index
func (se *StorageEngine) CreateIndex(name string, config domain.IndexConfig) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := se.indexEngine.CreateIndex(name, config); err != nil {
		return err
	}
	se.markDirty(name)
	return nil
}

// DropIndex removes a named index, its per-index file and its entry in the
// main data file
func (se *StorageEngine) DropIndex(name string) error {
	if err := se.indexEngine.DropIndex(name); err != nil {
		return err
	}

	se.mu.Lock()
	delete(se.status, name)
	se.mu.Unlock()

	lock := se.saveLock(name)
	lock.Lock()
	err := os.Remove(se.indexFile(name))
	lock.Unlock()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove index file: %w", err)
	}
	if err := se.removeFromMainFile(name); err != nil {
		return fmt.Errorf("failed to remove index from data file: %w", err)
	}
	log.Printf("INFO: Dropped index %s", name)
	return nil
}

// GetIndexes describes every index, sorted by name
func (se *StorageEngine) GetIndexes() []domain.IndexInfo {
	return se.indexEngine.GetIndexes()
}

// GetIndexInfo describes the named index
func (se *StorageEngine) GetIndexInfo(name string) (domain.IndexInfo, error) {
	return se.indexEngine.GetIndexInfo(name)
}
