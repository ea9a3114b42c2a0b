package slots

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memSlot struct {
	blob    []byte
	savedAt time.Time
}

// MemoryStore keeps slots in process memory.
type MemoryStore struct {
	Range
	mu    sync.Mutex
	slots map[int]memSlot
	now   func() time.Time
}

// NewMemoryStore returns an empty store with count slots.
func NewMemoryStore(count int) *MemoryStore {
	return &MemoryStore{
		Range: Range{Count: count},
		slots: make(map[int]memSlot),
		now:   time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, slot int, blob []byte) error {
	if err := s.Check(slot); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = memSlot{blob: append([]byte(nil), blob...), savedAt: s.now().UTC()}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, slot int) ([]byte, error) {
	if err := s.Check(slot); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.slots[slot]
	if !ok {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), m.blob...), nil
}

func (s *MemoryStore) List(context.Context) ([]Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Info, 0, len(s.slots))
	for n, m := range s.slots {
		out = append(out, Info{Slot: n, Size: len(m.blob), SavedAt: m.savedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, slot int) error {
	if err := s.Check(slot); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[slot]; !ok {
		return ErrSlotEmpty
	}
	delete(s.slots, slot)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
