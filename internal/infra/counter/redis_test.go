package counter

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisStoreTestSuite struct {
	suite.Suite
	client *redis.Client
	store  *RedisStore
	ctx    context.Context
}

// REDIS_ADDR があるときだけ動かす
func TestRedisStoreSuite(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	suite.Run(t, &RedisStoreTestSuite{client: NewRedisClient(RedisConfig{Addr: addr})})
}

func (s *RedisStoreTestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.store = NewRedisStore(s.client)
	s.Require().NoError(s.store.Ping(s.ctx))
}

func (s *RedisStoreTestSuite) TearDownSuite() {
	s.client.Close()
}

func (s *RedisStoreTestSuite) SetupTest() {
	s.client.Del(s.ctx, "test:counter")
}

func (s *RedisStoreTestSuite) TestGetMissing() {
	n, err := s.store.Get(s.ctx, "test:counter")
	s.NoError(err)
	s.Equal(int64(0), n)

	ttl, err := s.store.TTL(s.ctx, "test:counter")
	s.NoError(err)
	s.Equal(time.Duration(0), ttl)
}

func (s *RedisStoreTestSuite) TestIncrSetsTTLOnce() {
	n, err := s.store.Incr(s.ctx, "test:counter", time.Minute)
	s.NoError(err)
	s.Equal(int64(1), n)

	first, err := s.store.TTL(s.ctx, "test:counter")
	s.NoError(err)
	s.Greater(first, 50*time.Second)

	n, err = s.store.Incr(s.ctx, "test:counter", time.Hour)
	s.NoError(err)
	s.Equal(int64(2), n)

	//EXPIRE NX なので1時間にはならない
	second, err := s.store.TTL(s.ctx, "test:counter")
	s.NoError(err)
	s.LessOrEqual(second, time.Minute)

	got, err := s.store.Get(s.ctx, "test:counter")
	s.NoError(err)
	s.Equal(int64(2), got)
}

func (s *RedisStoreTestSuite) TestIncrBelowStopsAtLimit() {
	for i := int64(1); i <= 2; i++ {
		n, ok, err := s.store.IncrBelow(s.ctx, "test:counter", 2, time.Minute)
		s.NoError(err)
		s.True(ok)
		s.Equal(i, n)
	}

	n, ok, err := s.store.IncrBelow(s.ctx, "test:counter", 2, time.Minute)
	s.NoError(err)
	s.False(ok)
	s.Equal(int64(2), n)

	ttl, err := s.store.TTL(s.ctx, "test:counter")
	s.NoError(err)
	s.Greater(ttl, 50*time.Second)
}

func (s *RedisStoreTestSuite) TestIncrBelowConcurrent() {
	var wg sync.WaitGroup
	var granted atomic.Int64
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, err := s.store.IncrBelow(s.ctx, "test:counter", 5, time.Minute); err == nil && ok {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int64(5), granted.Load())
	got, err := s.store.Get(s.ctx, "test:counter")
	s.NoError(err)
	s.Equal(int64(5), got)
}
