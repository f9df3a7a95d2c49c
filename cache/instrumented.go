package cache

import (
	"context"
	"errors"
	"time"

	"github.com/eczane/pharmacy-api/metrics"
)

// InstrumentedStore counts hits, misses and errors of the wrapped store
type InstrumentedStore struct {
	Store
}

func NewInstrumentedStore(s Store) *InstrumentedStore {
	return &InstrumentedStore{Store: s}
}

// Unwrap returns the underlying backend
func (s *InstrumentedStore) Unwrap() Store { return s.Store }

func (s *InstrumentedStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.Store.Get(ctx, key)
	switch {
	case err == nil:
		metrics.CacheOperations.WithLabelValues("get", "hit").Inc()
	case errors.Is(err, ErrMiss):
		metrics.CacheOperations.WithLabelValues("get", "miss").Inc()
	default:
		metrics.CacheOperations.WithLabelValues("get", "error").Inc()
	}
	return v, err
}

func (s *InstrumentedStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	err := s.Store.SetWithTTL(ctx, key, value, ttl)
	record("set", err)
	return err
}

func (s *InstrumentedStore) Set(ctx context.Context, key, value string) error {
	err := s.Store.Set(ctx, key, value)
	record("set", err)
	return err
}

func (s *InstrumentedStore) SAdd(ctx context.Context, key string, members ...string) error {
	err := s.Store.SAdd(ctx, key, members...)
	record("sadd", err)
	return err
}

func record(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.CacheOperations.WithLabelValues(op, result).Inc()
}
