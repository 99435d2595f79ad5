package store

import (
	"context"
	"sync"

	"quiz-master-backend/internal/models"
)

// MemoryStore keeps results for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]models.GameResult
	ordered []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]models.GameResult)}
}

func (s *MemoryStore) Save(ctx context.Context, result *models.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[result.ID]; exists {
		return ErrResultExists
	}
	s.byID[result.ID] = cloneResult(*result)

	// keep ordered by finish time, newest last
	i := len(s.ordered)
	for i > 0 && s.byID[s.ordered[i-1]].FinishedAt.After(result.FinishedAt) {
		i--
	}
	s.ordered = append(s.ordered, "")
	copy(s.ordered[i+1:], s.ordered[i:])
	s.ordered[i] = result.ID
	return nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]models.GameResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		return nil, nil
	}
	results := make([]models.GameResult, 0, limit)
	for i := len(s.ordered) - 1; i >= 0 && len(results) < limit; i-- {
		results = append(results, cloneResult(s.byID[s.ordered[i]]))
	}
	return results, nil
}

func (s *MemoryStore) GetByCode(ctx context.Context, code string) (*models.GameResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.ordered) - 1; i >= 0; i-- {
		r := s.byID[s.ordered[i]]
		if r.Code == code {
			out := cloneResult(r)
			return &out, nil
		}
	}
	return nil, ErrResultNotFound
}

func cloneResult(r models.GameResult) models.GameResult {
	entries := make([]models.GameResultEntry, len(r.Entries))
	copy(entries, r.Entries)
	r.Entries = entries
	return r
}
