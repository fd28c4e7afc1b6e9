package storage

import (
	"context"
	"sync"

	"github.com/devghori1264/aerophoenix/robot-service/internal/models"
)

// MemoryStore keeps robots in process memory for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	robots map[string]*models.Robot
	// insertion order of ids, for deterministic listing
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		robots: make(map[string]*models.Robot),
	}
}

func (s *MemoryStore) ListRobots(_ context.Context) ([]models.Robot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Robot, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.robots[id])
	}
	return out, nil
}

func (s *MemoryStore) CreateRobot(_ context.Context, in models.RobotCreate) (models.Robot, error) {
	r := in.Robot(newID())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.robots[r.ID] = &r
	s.order = append(s.order, r.ID)
	return r, nil
}

func (s *MemoryStore) GetRobot(_ context.Context, id string) (models.Robot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.robots[id]
	if !ok {
		return models.Robot{}, ErrNotFound
	}
	return *r, nil
}

func (s *MemoryStore) PatchRobot(_ context.Context, id string, p models.RobotPatch) (models.Robot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.robots[id]
	if !ok {
		return models.Robot{}, ErrNotFound
	}
	p.Apply(r)
	return *r, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
