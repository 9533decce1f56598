package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/repo"
)

// Store keeps the last keep runs; older ones are evicted on Save.
type Store struct {
	mu    sync.RWMutex
	keep  int
	runs  map[domain.RunID]*domain.Run
	order []domain.RunID // oldest first
}

func New(keep int) *Store {
	if keep < 1 {
		keep = 1
	}
	return &Store{
		keep:  keep,
		runs:  make(map[domain.RunID]*domain.Run, keep),
		order: make([]domain.RunID, 0, keep),
	}
}

func (m *Store) Save(ctx context.Context, r *domain.Run) error {
	if r == nil {
		return errors.New("memory: nil run")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.runs[r.ID]; !ok {
		m.order = append(m.order, r.ID)
	}
	m.runs[r.ID] = r

	for len(m.order) > m.keep {
		delete(m.runs, m.order[0])
		m.order = m.order[1:]
	}
	return nil
}

func (m *Store) Get(ctx context.Context, id domain.RunID) (*domain.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return r, nil
}

func (m *Store) Latest(ctx context.Context) (*domain.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.order) == 0 {
		return nil, repo.ErrNotFound
	}
	return m.runs[m.order[len(m.order)-1]], nil
}

// Len is the number of runs currently held.
func (m *Store) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}
