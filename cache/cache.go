// Package cache is the best-effort key-value store in front of the upstream
// drug APIs. Callers treat every error as a miss; nothing depends on the cache
// for correctness.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/eczane/pharmacy-api/config"
	"github.com/eczane/pharmacy-api/logging"
)

// ErrMiss is returned by Get when the key is absent or expired
var ErrMiss = errors.New("cache: miss")

const (
	TTLInteraction = 6 * time.Hour
	TTLPregnancy   = 6 * time.Hour
	TTLDisease     = 24 * time.Hour

	interactionPrefix = "drug_interaction:"

	// InteractionIndexKey is the set of interaction keys ever written
	InteractionIndexKey = "drug_interaction_index"
)

// Store is the contract shared by the Redis, in-memory and no-op backends
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SAdd(ctx context.Context, key string, members ...string) error
	Ping(ctx context.Context) error
	Backend() string
	Close() error
}

// InteractionKey builds the order-independent key of a drug set: names are
// deduplicated, sorted and joined with "|".
func InteractionKey(names []string) string {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return interactionPrefix + strings.Join(sorted, "|")
}

// NamesFromInteractionKey reverses InteractionKey
func NamesFromInteractionKey(key string) ([]string, bool) {
	rest, ok := strings.CutPrefix(key, interactionPrefix)
	if !ok || rest == "" {
		return nil, false
	}
	return strings.Split(rest, "|"), true
}

func PregnancyKey(name string) string { return "pregnancy:" + name }

func DiseaseSearchKey(query string) string { return "icd10:" + query }

// GetJSON reads key and unmarshals it into dst
func GetJSON(ctx context.Context, s Store, key string, dst any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return nil
}

// SetJSON marshals v and stores it under key for ttl
func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return s.SetWithTTL(ctx, key, string(raw), ttl)
}

// New builds the configured backend wrapped with metrics. A Redis backend that
// cannot be reached at start-up falls back to the in-memory store.
func New(ctx context.Context, cfg *config.Config) Store {
	var s Store
	switch cfg.CacheBackend {
	case config.CacheNone:
		s = NopStore{}
	case config.CacheRedis:
		rs, err := NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logging.Warn("Redis unavailable, falling back to in-memory cache", "error", err)
			s = NewMemoryStore()
		} else {
			s = rs
		}
	default:
		s = NewMemoryStore()
	}

	logging.Info("Cache initialized", "backend", s.Backend())
	return NewInstrumentedStore(s)
}
