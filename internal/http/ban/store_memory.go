package ban

import (
	"context"
	"sync"
	"time"
)

type strikeCounter struct {
	count   int64
	expires time.Time
}

// MemoryStore is a single-process Store used when Redis is disabled.
type MemoryStore struct {
	mu      sync.Mutex
	strikes map[string]strikeCounter
	bans    map[string]time.Time
	log     []LogEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		strikes: make(map[string]strikeCounter),
		bans:    make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryStore) Strike(ctx context.Context, target string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c, ok := s.strikes[target]
	if !ok || now.After(c.expires) {
		c = strikeCounter{expires: now.Add(window)}
	}
	c.count++
	s.strikes[target] = c
	return c.count, nil
}

func (s *MemoryStore) Ban(ctx context.Context, target string, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bans[target] = s.now().Add(d)
	delete(s.strikes, target)
	return nil
}

func (s *MemoryStore) IsBanned(ctx context.Context, target string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.bans[target]
	if !ok {
		return false, nil
	}
	if s.now().After(until) {
		delete(s.bans, target)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) LogBan(ctx context.Context, entry LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log = append(s.log, entry)
	return nil
}

func (s *MemoryStore) DrainLog(ctx context.Context) ([]LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.log
	s.log = nil
	return entries, nil
}
