// Package memory is the in-process decision log used when no
// DATABASE_URL is configured, and by tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"frenz/gateway/internal/domain"
	"frenz/gateway/internal/store"
)

type Store struct {
	mu        sync.RWMutex
	decisions []domain.Decision
}

func New() *Store {
	return &Store{decisions: make([]domain.Decision, 0, 64)}
}

func (s *Store) CreateDecision(_ context.Context, decision domain.Decision) error {
	if decision.ID == "" || decision.PurchaseID == 0 || decision.Action == "" || decision.Actor == "" {
		return store.ErrInvalidDecision
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Newest first so ListDecisions can slice from the front.
	s.decisions = append([]domain.Decision{decision}, s.decisions...)
	return nil
}

func (s *Store) ListDecisions(_ context.Context, date string, limit int) ([]domain.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	date = strings.TrimSpace(date)
	out := make([]domain.Decision, 0, limit)
	for _, decision := range s.decisions {
		if date != "" && !strings.HasPrefix(decision.DecidedAt, date) {
			continue
		}
		out = append(out, decision)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
