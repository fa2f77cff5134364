package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRunStore keeps run history in memory. The default backend; history
// lives only as long as the process.
type MemoryRunStore struct {
	mu         sync.Mutex
	runs       []RunInfo
	iterations map[string][]IterationRecord
}

func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{
		iterations: make(map[string][]IterationRecord),
	}
}

func (s *MemoryRunStore) CreateRun(collection, mode string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.runs = append(s.runs, RunInfo{
		ID:         id,
		Collection: collection,
		Mode:       mode,
		Status:     StatusRunning,
		StartedAt:  time.Now(),
	})
	return id, nil
}

func (s *MemoryRunStore) CompleteRun(id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.runs {
		if s.runs[i].ID == id {
			now := time.Now()
			s.runs[i].Status = status
			s.runs[i].FinishedAt = &now
			return nil
		}
	}
	return fmt.Errorf("run not found: %s", id)
}

func (s *MemoryRunStore) RecordIteration(rec IterationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	s.iterations[rec.RunID] = append(s.iterations[rec.RunID], rec)
	return nil
}

// ListRuns returns runs most recent first.
func (s *MemoryRunStore) ListRuns(limit int) ([]RunInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RunInfo, 0, len(s.runs))
	for i := len(s.runs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, s.runs[i])
	}
	return out, nil
}

func (s *MemoryRunStore) GetIterations(runID string) ([]IterationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.iterations[runID]
	out := make([]IterationRecord, len(recs))
	copy(out, recs)
	return out, nil
}

func (s *MemoryRunStore) Close() error {
	return nil
}
