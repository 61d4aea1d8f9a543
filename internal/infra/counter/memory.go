package counter

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	count     int64
	expiresAt time.Time
}

// プロセス内のカウンタ。Redisが無い環境とテスト用
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

type MemoryOption func(*MemoryStore)

// テストで時計を差し替える
func WithNow(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: map[string]memEntry{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// 期限切れは消してから返す（ロックを持って呼ぶ）
func (s *MemoryStore) live(key string) (memEntry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return memEntry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return memEntry{}, false
	}
	return e, true
}

func (s *MemoryStore) Get(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, _ := s.live(key)
	return e.count, nil
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		e = memEntry{expiresAt: s.now().Add(window)}
	}
	e.count++
	s.entries[key] = e
	return e.count, nil
}

func (s *MemoryStore) IncrBelow(_ context.Context, key string, limit int64, window time.Duration) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if ok && e.count >= limit {
		return e.count, false, nil
	}
	if !ok {
		e = memEntry{expiresAt: s.now().Add(window)}
	}
	e.count++
	s.entries[key] = e
	return e.count, true, nil
}

func (s *MemoryStore) TTL(_ context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		return 0, nil
	}
	return e.expiresAt.Sub(s.now()), nil
}
