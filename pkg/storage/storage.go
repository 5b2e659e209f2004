package storage

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
	"github.com/adfharrison1/go-jsonindex/pkg/indexing"
)

type IndexState int

const (
	IndexStateClean IndexState = iota
	IndexStateDirty
)

// IndexStatus tracks persistence state for a named index
type IndexStatus struct {
	Name         string
	State        IndexState
	LastModified time.Time
	LastSaved    time.Time
}

// validName restricts index names to what can safely be used as a file name
var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// StorageEngine is a catalog of named indexes with file persistence
type StorageEngine struct {
	mu          sync.RWMutex
	indexEngine *indexing.IndexEngine
	status      map[string]*IndexStatus

	// Per-index save locks so one index is never written by two savers at once
	saveLocks map[string]*sync.Mutex
	locksMu   sync.Mutex

	// mainFile is the catalog file last loaded or saved. mainMu is taken
	// before any save lock.
	mainMu   sync.Mutex
	mainFile string

	// Configuration
	dataDir         string
	backgroundSave  bool
	transactionSave bool
	saveInterval    time.Duration
	indexOptions    []indexing.IndexOption

	// Background workers
	backgroundWg sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// NewStorageEngine creates a new storage engine
func NewStorageEngine(options ...StorageOption) *StorageEngine {
	engine := &StorageEngine{
		status:          make(map[string]*IndexStatus),
		saveLocks:       make(map[string]*sync.Mutex),
		dataDir:         ".",
		backgroundSave:  false,
		transactionSave: true, // Default to transaction-based saves
		saveInterval:    5 * time.Minute,
		stopChan:        make(chan struct{}),
	}

	// Apply options
	for _, option := range options {
		option(engine)
	}

	engine.indexEngine = indexing.NewIndexEngine(engine.indexOptions...)
	return engine
}

// IsTransactionSaveEnabled returns whether transaction-based saves are enabled
func (se *StorageEngine) IsTransactionSaveEnabled() bool {
	return se.transactionSave
}

// Status returns a copy of the persistence status of the named index
func (se *StorageEngine) Status(name string) (IndexStatus, bool) {
	se.mu.RLock()
	defer se.mu.RUnlock()
	st, ok := se.status[name]
	if !ok {
		return IndexStatus{}, false
	}
	return *st, true
}

// indexesDir is where per-index files live
func (se *StorageEngine) indexesDir() string {
	return filepath.Join(se.dataDir, "indexes")
}

func (se *StorageEngine) indexFile(name string) string {
	return filepath.Join(se.indexesDir(), name+FileExtension)
}

func (se *StorageEngine) getIndex(name string) (*indexing.Index, error) {
	return se.indexEngine.GetIndex(name)
}

func (se *StorageEngine) markDirty(name string) {
	se.mu.Lock()
	defer se.mu.Unlock()
	st, ok := se.status[name]
	if !ok {
		st = &IndexStatus{Name: name}
		se.status[name] = st
	}
	st.State = IndexStateDirty
	st.LastModified = time.Now()
}

func (se *StorageEngine) markClean(name string, at time.Time) {
	se.mu.Lock()
	defer se.mu.Unlock()
	st, ok := se.status[name]
	if !ok {
		st = &IndexStatus{Name: name}
		se.status[name] = st
	}
	// a write that landed after the snapshot keeps the index dirty
	if st.LastModified.After(at) {
		return
	}
	st.State = IndexStateClean
	st.LastSaved = at
}

func (se *StorageEngine) saveLock(name string) *sync.Mutex {
	se.locksMu.Lock()
	defer se.locksMu.Unlock()
	l, ok := se.saveLocks[name]
	if !ok {
		l = &sync.Mutex{}
		se.saveLocks[name] = l
	}
	return l
}

func checkName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("%w: invalid index name %q", domain.ErrInvalidConfig, name)
	}
	return nil
}
