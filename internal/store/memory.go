package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/collabsim/netform/internal/metrics"
)

// MemoryStore implements Store in memory. It backs tests and dry runs where
// nothing should touch disk.
type MemoryStore struct {
	mu     sync.Mutex
	runs   []Run
	trials map[string][]metrics.TrialRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trials: make(map[string][]metrics.TrialRecord)}
}

func (s *MemoryStore) CreateRun(ctx context.Context, config string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := ulid.Make().String()
	s.runs = append(s.runs, Run{ID: id, CreatedAt: time.Now().UTC(), Config: config})
	s.trials[id] = nil
	return id, nil
}

func (s *MemoryStore) AppendTrials(ctx context.Context, runID string, records []metrics.TrialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trials[runID]; !ok {
		return fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	s.trials[runID] = append(s.trials[runID], records...)
	return nil
}

func (s *MemoryStore) ListRuns(ctx context.Context) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Run, len(s.runs))
	for i, r := range s.runs {
		r.Trials = len(s.trials[r.ID])
		// Newest first, matching the SQLite store.
		out[len(s.runs)-1-i] = r
	}
	return out, nil
}

func (s *MemoryStore) Trials(ctx context.Context, runID string) ([]metrics.TrialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.trials[runID]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	return append([]metrics.TrialRecord(nil), records...), nil
}

func (s *MemoryStore) Close() error { return nil }
