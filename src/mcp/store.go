package mcp

import (
	"sync"
)

// DefaultStoreCapacity bounds how many predictions a server keeps.
const DefaultStoreCapacity = 100

// PredictionStore keeps predictions made during a session for drill-down.
type PredictionStore interface {
	// Store saves a prediction under its request ID.
	Store(record PredictionRecord)
	// Get retrieves a prediction by request ID.
	Get(requestID string) (PredictionRecord, bool)
	// List returns stored predictions, oldest first.
	List() []PredictionRecord
}

// InMemoryStore is a thread-safe, bounded implementation of PredictionStore.
// The oldest record is evicted once capacity is reached.
type InMemoryStore struct {
	mu       sync.RWMutex
	capacity int
	order    []string                    // request IDs, oldest first
	records  map[string]PredictionRecord // request_id -> record
}

// NewInMemoryStore creates a new in-memory prediction store.
func NewInMemoryStore(capacity int) *InMemoryStore {
	if capacity <= 0 {
		capacity = DefaultStoreCapacity
	}
	return &InMemoryStore{
		capacity: capacity,
		records:  make(map[string]PredictionRecord),
	}
}

// Store saves a record, replacing any record with the same request ID.
func (s *InMemoryStore) Store(record PredictionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.RequestID]; !exists {
		s.order = append(s.order, record.RequestID)
	}
	s.records[record.RequestID] = record

	for len(s.order) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.records, oldest)
	}
}

// Get retrieves a record by request ID.
func (s *InMemoryStore) Get(requestID string) (PredictionRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[requestID]
	return r, ok
}

// List returns all records, oldest first.
func (s *InMemoryStore) List() []PredictionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]PredictionRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}
