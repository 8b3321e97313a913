package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// localItem wraps cached bytes with their expiry.
type localItem struct {
	Data      []byte
	ExpiresAt time.Time
}

// LocalStore is an in-process LRU store, used when Redis is not configured.
type LocalStore struct {
	lruCache *lru.Cache[string, localItem]
	now      func() time.Time
}

func NewLocalStore(size int) (*LocalStore, error) {
	l, err := lru.New[string, localItem](size)
	if err != nil {
		return nil, err
	}
	return &LocalStore{lruCache: l, now: time.Now}, nil
}

func (s *LocalStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.lruCache.Add(key, localItem{
		Data:      value,
		ExpiresAt: s.now().Add(ttl),
	})
	return nil
}

// Get drops expired entries lazily.
func (s *LocalStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, ok := s.lruCache.Get(key)
	if !ok {
		return nil, false, nil
	}
	if s.now().After(val.ExpiresAt) {
		s.lruCache.Remove(key)
		return nil, false, nil
	}
	return val.Data, true, nil
}

func (s *LocalStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		s.lruCache.Remove(k)
	}
	return nil
}
