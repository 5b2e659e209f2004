package storage

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// SaveToFile saves every index to a single file. The per-index files of the
// saved indexes are removed afterwards, so the main file is the newest copy
// of each index it holds until the next transaction save.
func (se *StorageEngine) SaveToFile(filename string) error {
	se.mainMu.Lock()
	defer se.mainMu.Unlock()

	// hold every save lock so no per-index file is written between the
	// export and its removal
	var names []string
	for _, info := range se.indexEngine.GetIndexes() {
		names = append(names, info.Name)
	}
	for _, name := range names {
		lock := se.saveLock(name)
		lock.Lock()
		defer lock.Unlock()
	}

	at := time.Now()
	exported, err := se.indexEngine.ExportIndexes()
	if err != nil {
		return err
	}
	storageData := NewStorageData()
	for _, name := range names {
		if b, ok := exported[name]; ok {
			storageData.Indexes[name] = b
		}
	}
	storageData.Metadata["saved_at"] = at.UTC().Format(time.RFC3339)

	if err := writeStorageFile(filename, storageData); err != nil {
		return err
	}
	se.mainFile = filename

	for name := range storageData.Indexes {
		if err := os.Remove(se.indexFile(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove superseded index file: %w", err)
		}
		se.markClean(name, at)
	}
	return nil
}

// LoadFromFile loads indexes from a single file, then overlays any per-index
// files found in the data directory, which are at least as recent. A missing
// file is not an error.
func (se *StorageEngine) LoadFromFile(filename string) error {
	storageData, err := readStorageFile(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
		storageData = NewStorageData()
	case err != nil:
		return err
	}

	overlay, err := se.readIndexFiles()
	if err != nil {
		return err
	}
	for name, b := range overlay {
		storageData.Indexes[name] = b
	}

	if err := se.indexEngine.ImportIndexes(storageData.Indexes); err != nil {
		return err
	}
	se.mainMu.Lock()
	se.mainFile = filename
	se.mainMu.Unlock()
	at := time.Now()
	for name := range storageData.Indexes {
		se.markClean(name, at)
	}
	log.Printf("INFO: Loaded %d indexes", len(storageData.Indexes))
	return nil
}

// SaveIndexAfterTransaction saves a specific index to disk if transaction saves are enabled
func (se *StorageEngine) SaveIndexAfterTransaction(name string) error {
	if !se.transactionSave {
		return nil // Transaction saves disabled
	}

	st, ok := se.Status(name)
	if !ok || st.State != IndexStateDirty {
		return nil
	}
	return se.saveIndexToFile(name)
}

// saveDirtyIndexes saves all dirty indexes to individual files
func (se *StorageEngine) saveDirtyIndexes() {
	start := time.Now()
	savedCount := 0
	errorCount := 0

	se.mu.RLock()
	var dirty []string
	for name, st := range se.status {
		if st.State == IndexStateDirty {
			dirty = append(dirty, name)
		}
	}
	se.mu.RUnlock()

	if len(dirty) == 0 {
		return
	}

	log.Printf("INFO: Background save starting - %d dirty indexes to save", len(dirty))
	for _, name := range dirty {
		if err := se.saveIndexToFile(name); err != nil {
			log.Printf("ERROR: Failed to save index %s: %v", name, err)
			errorCount++
		} else {
			savedCount++
		}
	}

	elapsed := time.Since(start)
	if errorCount > 0 {
		log.Printf("WARN: Background save completed with errors - saved: %d, errors: %d, time: %v",
			savedCount, errorCount, elapsed)
	} else {
		log.Printf("INFO: Background save completed successfully - saved: %d indexes in %v",
			savedCount, elapsed)
	}
}

// saveIndexToFile writes one index to its individual file
func (se *StorageEngine) saveIndexToFile(name string) error {
	lock := se.saveLock(name)
	lock.Lock()
	defer lock.Unlock()

	idx, err := se.getIndex(name)
	if err != nil {
		return err
	}
	at := time.Now()
	b, err := idx.ToBytes()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(se.indexesDir(), 0755); err != nil {
		return fmt.Errorf("failed to create indexes directory: %w", err)
	}
	storageData := NewStorageData()
	storageData.Indexes[name] = b
	if err := writeStorageFile(se.indexFile(name), storageData); err != nil {
		return err
	}
	se.markClean(name, at)
	return nil
}

// removeFromMainFile rewrites the last loaded or saved main file without name
func (se *StorageEngine) removeFromMainFile(name string) error {
	se.mainMu.Lock()
	defer se.mainMu.Unlock()
	if se.mainFile == "" {
		return nil
	}
	storageData, err := readStorageFile(se.mainFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, ok := storageData.Indexes[name]; !ok {
		return nil
	}
	delete(storageData.Indexes, name)
	return writeStorageFile(se.mainFile, storageData)
}

// readIndexFiles reads every per-index file in the data directory
func (se *StorageEngine) readIndexFiles() (map[string][]byte, error) {
	entries, err := os.ReadDir(se.indexesDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read indexes directory: %w", err)
	}
	out := make(map[string][]byte)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExtension) {
			continue
		}
		storageData, err := readStorageFile(filepath.Join(se.indexesDir(), entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		for name, b := range storageData.Indexes {
			out[name] = b
		}
	}
	return out, nil
}

// writeStorageFile writes header + lz4(msgpack(data)) to a temporary file and
// renames it over filename
func writeStorageFile(filename string, data *StorageData) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := WriteHeader(tmp, FlagLZ4); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	zw := lz4.NewWriter(tmp)
	if err := msgpack.NewEncoder(zw).Encode(data); err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// readStorageFile reads a file written by writeStorageFile
func readStorageFile(filename string) (*StorageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	header, err := ReadHeader(file)
	if err != nil {
		return nil, fmt.Errorf("invalid file header: %w", err)
	}
	var r io.Reader = file
	if header.Flags&FlagLZ4 != 0 {
		r = lz4.NewReader(file)
	}

	storageData := NewStorageData()
	if err := msgpack.NewDecoder(r).Decode(storageData); err != nil {
		return nil, fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	if storageData.Indexes == nil {
		storageData.Indexes = make(map[string][]byte)
	}
	return storageData, nil
}
