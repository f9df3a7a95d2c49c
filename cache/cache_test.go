package cache

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/eczane/pharmacy-api/config"
	"github.com/eczane/pharmacy-api/metrics"
)

func TestInteractionKeyIsOrderIndependent(t *testing.T) {
	a := InteractionKey([]string{"warfarin", "aspirin"})
	b := InteractionKey([]string{"aspirin", "warfarin"})
	if a != b {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}
	if a != "drug_interaction:aspirin|warfarin" {
		t.Errorf("unexpected key %q", a)
	}

	dup := InteractionKey([]string{"aspirin", "warfarin", "aspirin"})
	if dup != a {
		t.Errorf("duplicates should collapse, got %q", dup)
	}

	names, ok := NamesFromInteractionKey(a)
	if !ok || !slices.Equal(names, []string{"aspirin", "warfarin"}) {
		t.Errorf("NamesFromInteractionKey = %v, %v", names, ok)
	}
	if _, ok := NamesFromInteractionKey("pregnancy:aspirin"); ok {
		t.Error("foreign key should not parse")
	}
}

func TestInteractionKeyDoesNotMutateInput(t *testing.T) {
	in := []string{"warfarin", "aspirin"}
	InteractionKey(in)
	if in[0] != "warfarin" {
		t.Errorf("input reordered: %v", in)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	if err := m.SetWithTTL(ctx, "k", "v", time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := m.Set(ctx, "forever", "x"); err != nil {
		t.Fatal(err)
	}

	if v, err := m.Get(ctx, "k"); err != nil || v != "v" {
		t.Fatalf("Get before expiry = %q, %v", v, err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss after expiry, got %v", err)
	}
	if v, err := m.Get(ctx, "forever"); err != nil || v != "x" {
		t.Errorf("entry without TTL expired: %q, %v", v, err)
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	now := time.Now()
	m.now = func() time.Time { return now }

	_ = m.SetWithTTL(ctx, "a", "1", time.Second)
	_ = m.SetWithTTL(ctx, "b", "2", time.Hour)
	now = now.Add(time.Minute)

	if removed := m.Sweep(); removed != 1 {
		t.Errorf("Sweep removed %d, want 1", removed)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestMemoryStoreSets(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	_ = m.SAdd(ctx, "s", "a", "b")
	_ = m.SAdd(ctx, "s", "b", "c")

	got, err := m.SMembers(ctx, "s")
	if err != nil {
		t.Fatal(err)
	}
	slices.Sort(got)
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("SMembers = %v", got)
	}

	empty, _ := m.SMembers(ctx, "missing")
	if len(empty) != 0 {
		t.Errorf("missing set should be empty, got %v", empty)
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	s, err := NewRedisStore(ctx, "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()

	if _, err := s.Get(ctx, "absent"); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss, got %v", err)
	}

	if err := s.SetWithTTL(ctx, "k", "v", time.Hour); err != nil {
		t.Fatal(err)
	}
	if v, err := s.Get(ctx, "k"); err != nil || v != "v" {
		t.Fatalf("Get = %q, %v", v, err)
	}
	if ttl := mr.TTL("k"); ttl != time.Hour {
		t.Errorf("TTL = %v, want 1h", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss after TTL, got %v", err)
	}

	if err := s.SAdd(ctx, InteractionIndexKey, "x", "y"); err != nil {
		t.Fatal(err)
	}
	members, err := s.SMembers(ctx, InteractionIndexKey)
	if err != nil {
		t.Fatal(err)
	}
	slices.Sort(members)
	if !slices.Equal(members, []string{"x", "y"}) {
		t.Errorf("SMembers = %v", members)
	}
	if err := s.SAdd(ctx, InteractionIndexKey); err != nil {
		t.Errorf("empty SAdd should be a no-op, got %v", err)
	}
}

func TestRedisStoreErrorsAfterShutdown(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	s, err := NewRedisStore(ctx, "redis://"+mr.Addr())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	mr.Close()

	_, err = s.Get(ctx, "k")
	if err == nil || errors.Is(err, ErrMiss) {
		t.Errorf("expected a transport error, got %v", err)
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type payload struct {
		Drugs []string `json:"drugs"`
	}
	in := payload{Drugs: []string{"aspirin"}}
	if err := SetJSON(ctx, s, "p", in, time.Minute); err != nil {
		t.Fatal(err)
	}
	var out payload
	if err := GetJSON(ctx, s, "p", &out); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(out.Drugs, in.Drugs) {
		t.Errorf("round trip lost data: %+v", out)
	}

	_ = s.Set(ctx, "bad", "{not json")
	if err := GetJSON(ctx, s, "bad", &out); err == nil || errors.Is(err, ErrMiss) {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestNewFallsBackToMemory(t *testing.T) {
	cfg := &config.Config{CacheBackend: config.CacheRedis, RedisURL: "redis://127.0.0.1:1"}
	s := New(context.Background(), cfg)
	if s.Backend() != "memory" {
		t.Errorf("Backend = %s, want memory", s.Backend())
	}

	none := New(context.Background(), &config.Config{CacheBackend: config.CacheNone})
	if none.Backend() != "none" {
		t.Errorf("Backend = %s, want none", none.Backend())
	}
	if _, err := none.Get(context.Background(), "k"); !errors.Is(err, ErrMiss) {
		t.Errorf("NopStore Get should miss, got %v", err)
	}
}

func TestNewUsesRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	s := New(context.Background(), &config.Config{CacheBackend: config.CacheRedis, RedisURL: "redis://" + mr.Addr()})
	defer s.Close()
	if s.Backend() != "redis" {
		t.Errorf("Backend = %s, want redis", s.Backend())
	}
}

func TestInstrumentedStoreCounts(t *testing.T) {
	ctx := context.Background()
	s := NewInstrumentedStore(NewMemoryStore())

	hits := metrics.CacheOperations.WithLabelValues("get", "hit")
	misses := metrics.CacheOperations.WithLabelValues("get", "miss")
	hitsBefore, missesBefore := testutil.ToFloat64(hits), testutil.ToFloat64(misses)

	_, _ = s.Get(ctx, "nope")
	_ = s.SetWithTTL(ctx, "yes", "1", time.Minute)
	_, _ = s.Get(ctx, "yes")

	if d := testutil.ToFloat64(hits) - hitsBefore; d != 1 {
		t.Errorf("hits delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(misses) - missesBefore; d != 1 {
		t.Errorf("misses delta = %v, want 1", d)
	}
	if _, ok := s.Unwrap().(*MemoryStore); !ok {
		t.Errorf("Unwrap returned %T", s.Unwrap())
	}
}
