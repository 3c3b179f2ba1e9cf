package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/tiendc/go-deepcopy"

	"monolift/src/config"
	"monolift/src/types"
)

// MemStore keeps everything in process memory. Each queue is one ascending
// sorted slice; direction-aware traversal happens in QueuePeekNearest.
type MemStore struct {
	mu       sync.Mutex
	state    *types.ElevState
	queues   map[Queue][]int
	intended map[int]types.Direction
}

func NewMemStore() *MemStore {
	return &MemStore{
		queues:   map[Queue][]int{QueueUp: {}, QueueDown: {}},
		intended: make(map[int]types.Direction),
	}
}

func (s *MemStore) State(ctx context.Context) (types.ElevState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		s.state = &types.ElevState{Floor: config.DefaultFloor, Dir: types.DirIdle}
	}
	if s.state.Floor < 1 || s.state.Floor > config.MaxFloor {
		slog.Warn("Persisted elevator state out of range, resetting to defaults",
			"floor", s.state.Floor)
		s.state = &types.ElevState{Floor: config.DefaultFloor, Dir: types.DirIdle}
	}
	return *s.state, nil
}

func (s *MemStore) SetState(ctx context.Context, state types.ElevState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = &state
	return nil
}

func (s *MemStore) QueueAdd(ctx context.Context, q Queue, floor int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members := s.queues[q]
	i := sort.SearchInts(members, floor)
	if i < len(members) && members[i] == floor {
		return nil
	}
	members = append(members, 0)
	copy(members[i+1:], members[i:])
	members[i] = floor
	s.queues[q] = members
	return nil
}

func (s *MemStore) QueuePeekNearest(ctx context.Context, q Queue, from int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members := s.queues[q]
	switch q {
	case QueueDown:
		// Largest member <= from.
		i := sort.SearchInts(members, from+1)
		if i == 0 {
			return 0, false, nil
		}
		return members[i-1], true, nil
	default:
		// Smallest member >= from.
		i := sort.SearchInts(members, from)
		if i == len(members) {
			return 0, false, nil
		}
		return members[i], true, nil
	}
}

func (s *MemStore) QueueRemove(ctx context.Context, q Queue, floor int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members := s.queues[q]
	i := sort.SearchInts(members, floor)
	if i < len(members) && members[i] == floor {
		s.queues[q] = append(members[:i], members[i+1:]...)
	}
	return nil
}

func (s *MemStore) QueueMembers(ctx context.Context, q Queue) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var snapshot []int
	if err := deepcopy.Copy(&snapshot, s.queues[q]); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *MemStore) IntendedDirection(ctx context.Context, floor int) (types.Direction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dir, ok := s.intended[floor]
	return dir, ok, nil
}

func (s *MemStore) SetIntendedDirection(ctx context.Context, floor int, dir types.Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intended[floor] = dir
	return nil
}

func (s *MemStore) ClearIntendedDirection(ctx context.Context, floor int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.intended, floor)
	return nil
}
