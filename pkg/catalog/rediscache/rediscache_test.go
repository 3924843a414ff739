package rediscache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"foodorder/pkg/catalog"
	"foodorder/pkg/catalog/memory"
	"foodorder/pkg/logger"
)

// fakeRedis keeps string values in a map and answers GET and SET. Any other
// command panics through the nil embedded interface.
type fakeRedis struct {
	redis.Cmdable
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	default:
		f.data[key] = fmt.Sprint(v)
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) entry(key string) (string, time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, f.ttls[key], ok
}

// countingLookup counts the lookups that reach the backing catalog.
type countingLookup struct {
	next  catalog.Lookup
	calls atomic.Int32
}

func (l *countingLookup) Get(ctx context.Context, id string) (catalog.Item, error) {
	l.calls.Add(1)
	return l.next.Get(ctx, id)
}

func TestCacheReadThrough(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	next := &countingLookup{next: memory.New(catalog.Item{ID: "A", Name: "Dosa", Price: decimal.RequireFromString("45.50")})}
	log := logger.New(&bytes.Buffer{}, logger.LevelDebug, "test", nil)
	c := New(rdb, next, 5*time.Minute, log)

	it, err := c.Get(ctx, "A")
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	if it.Name != "Dosa" || next.calls.Load() != 1 {
		t.Fatalf("unexpected first get %+v, lookups=%d", it, next.calls.Load())
	}

	raw, ttl, ok := rdb.entry("menuitem:A")
	if !ok {
		t.Fatal("expected the miss to populate redis")
	}
	if ttl != 5*time.Minute {
		t.Fatalf("expected ttl 5m, got %s", ttl)
	}
	var cached catalog.Item
	if err := json.Unmarshal([]byte(raw), &cached); err != nil || cached.ID != "A" || !cached.Price.Equal(it.Price) {
		t.Fatalf("unexpected cached entry %q: %v", raw, err)
	}

	it, err = c.Get(ctx, "A")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if it.Name != "Dosa" || !it.Price.Equal(decimal.RequireFromString("45.50")) {
		t.Fatalf("unexpected cached item %+v", it)
	}
	if n := next.calls.Load(); n != 1 {
		t.Fatalf("expected second get to be served from redis, got %d lookups", n)
	}
}

func TestCacheReplacesCorruptEntry(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	rdb.data["menuitem:A"] = "{not json"
	next := &countingLookup{next: memory.New(catalog.Item{ID: "A", Name: "Idli", Price: decimal.NewFromInt(30)})}
	var buf bytes.Buffer
	c := New(rdb, next, time.Minute, logger.New(&buf, logger.LevelDebug, "test", nil))

	it, err := c.Get(ctx, "A")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if it.Name != "Idli" || next.calls.Load() != 1 {
		t.Fatalf("unexpected item %+v, lookups=%d", it, next.calls.Load())
	}
	if !strings.Contains(buf.String(), "discarding corrupt cache entry") {
		t.Fatalf("expected corrupt entry warning, got %q", buf.String())
	}

	raw, _, _ := rdb.entry("menuitem:A")
	var cached catalog.Item
	if err := json.Unmarshal([]byte(raw), &cached); err != nil || cached.Name != "Idli" {
		t.Fatalf("expected corrupt entry to be overwritten, got %q", raw)
	}

	if _, err := c.Get(ctx, "A"); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if n := next.calls.Load(); n != 1 {
		t.Fatalf("expected repaired entry to serve the second get, got %d lookups", n)
	}
}

func TestCacheDoesNotStoreMisses(t *testing.T) {
	rdb := newFakeRedis()
	c := New(rdb, memory.New(), time.Minute, logger.New(&bytes.Buffer{}, logger.LevelDebug, "test", nil))

	if _, err := c.Get(context.Background(), "missing"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, _, ok := rdb.entry("menuitem:missing"); ok {
		t.Fatal("expected no cache entry for a missing item")
	}
}

// unreachable returns a client pointed at a closed port so every command fails fast.
func unreachable(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestCacheFallsThroughWhenRedisDown(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.LevelDebug, "test", nil)
	next := memory.New(catalog.Item{ID: "A", Name: "Vada", Price: decimal.NewFromInt(20)})
	c := New(unreachable(t), next, time.Minute, log)

	it, err := c.Get(context.Background(), "A")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if it.Name != "Vada" {
		t.Fatalf("unexpected item %+v", it)
	}
	if !strings.Contains(buf.String(), "catalog cache read") {
		t.Fatalf("expected cache read warning, got %q", buf.String())
	}
}

func TestCacheMissPropagatesNotFound(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.LevelDebug, "test", nil)
	c := New(unreachable(t), memory.New(), time.Minute, log)

	if _, err := c.Get(context.Background(), "missing"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
