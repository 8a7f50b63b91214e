package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/teresajurado/specslope/specslope"
)

// MemoryStore keeps records in process memory. Records are held in encoded
// form, so mutating a series after Save (or a result of Load) never leaks
// into the store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]byte),
	}
}

// Load decodes the record for key. An absent key reports
// specslope.ErrCacheMiss.
func (s *MemoryStore) Load(_ context.Context, key string) (*specslope.SlopeSeries, error) {
	s.mu.RLock()
	data, ok := s.records[key]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", specslope.ErrCacheMiss, key)
	}
	return decodeSeries(data)
}

// Save encodes series and replaces any existing record for key.
func (s *MemoryStore) Save(_ context.Context, key string, series *specslope.SlopeSeries) error {
	data, err := encodeSeries(series)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.records[key] = data
	s.mu.Unlock()
	return nil
}

// Len reports the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

var _ specslope.ResultStore = (*MemoryStore)(nil)
