package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seqlogic/nucleus/internal/logits"
)

type sequenceRecord struct {
	Generator *logits.Generator
	Seed      int64
	CreatedAt time.Time
}

// SequenceStore holds the generator of every server-managed sampling
// session, keyed by an opaque id. Keeping generators here lets clients
// thread a reproducible random stream across HTTP calls the same way a
// scheduler threads them across steps.
type SequenceStore struct {
	mu        sync.Mutex
	sequences map[string]*sequenceRecord
}

func NewSequenceStore() *SequenceStore {
	return &SequenceStore{
		sequences: make(map[string]*sequenceRecord),
	}
}

// Create registers a new session seeded with seed and returns its id.
func (s *SequenceStore) Create(seed int64, now time.Time) SequenceResponse {
	id := newSequenceID()
	s.mu.Lock()
	s.sequences[id] = &sequenceRecord{
		Generator: logits.NewGenerator(seed),
		Seed:      seed,
		CreatedAt: now,
	}
	s.mu.Unlock()

	return SequenceResponse{
		ID:        id,
		Object:    "sampling.sequence",
		Seed:      seed,
		CreatedAt: now.Unix(),
	}
}

// Generator returns the session's generator. The caller is responsible for
// not running two draws against it concurrently.
func (s *SequenceStore) Generator(id string) (*logits.Generator, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sequences[id]
	if !ok {
		return nil, false
	}
	return rec.Generator, true
}

func (s *SequenceStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sequences[id]; !ok {
		return false
	}
	delete(s.sequences, id)
	return true
}

func newSequenceID() string {
	return "seq_" + uuid.NewString()
}

func newBatchID() string {
	return "batch_" + uuid.NewString()
}
