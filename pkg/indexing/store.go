package indexing

import (
	"sync"

	"github.com/adfharrison1/go-jsonindex/pkg/domain"
)

// primaryStore is the insertion-ordered keyed collection of accepted records,
// re-sorted by the index comparator after structural changes.
type primaryStore struct {
	mu      sync.RWMutex
	records []domain.Record
	pos     map[string]int
}

func newPrimaryStore(records []domain.Record) *primaryStore {
	s := &primaryStore{records: records}
	s.reindexLocked()
	return s
}

// upsert replaces the value for key, or appends a new record. It returns the
// previous value and whether one existed.
func (s *primaryStore) upsert(key string, value interface{}) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsertLocked(key, value)
}

func (s *primaryStore) upsertLocked(key string, value interface{}) (interface{}, bool) {
	if i, ok := s.pos[key]; ok {
		old := s.records[i].Value
		s.records[i].Value = value
		return old, true
	}
	s.pos[key] = len(s.records)
	s.records = append(s.records, domain.Record{Key: key, Value: value})
	return nil, false
}

// replace overwrites the value of an existing key only.
func (s *primaryStore) replace(key string, value interface{}) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.pos[key]
	if !ok {
		return nil, false
	}
	old := s.records[i].Value
	s.records[i].Value = value
	return old, true
}

// remove deletes key, returning its value. Absent keys are a no-op.
func (s *primaryStore) remove(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.pos[key]
	if !ok {
		return nil, false
	}
	old := s.records[i].Value
	s.records = append(s.records[:i], s.records[i+1:]...)
	delete(s.pos, key)
	for j := i; j < len(s.records); j++ {
		s.pos[s.records[j].Key] = j
	}
	return old, true
}

func (s *primaryStore) get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.pos[key]
	if !ok {
		return nil, false
	}
	return s.records[i].Value, true
}

func (s *primaryStore) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// sort re-orders the records with the comparator and refreshes positions.
func (s *primaryStore) sort(config domain.IndexConfig, o indexOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sortRecords(config, s.records, o)
	s.reindexLocked()
}

// snapshot returns the records in current order. Values are shared with
// the store and must not be handed to callers without cloning.
func (s *primaryStore) snapshot() []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *primaryStore) reindexLocked() {
	s.pos = make(map[string]int, len(s.records))
	for i, r := range s.records {
		s.pos[r.Key] = i
	}
}
