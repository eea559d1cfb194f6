package cache_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yeisme/videocatalog/pkg/cache"
	"github.com/yeisme/videocatalog/pkg/internal/storage/kv"
)

type testCategory struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

func newCache(t *testing.T) *cache.Cache {
	t.Helper()

	store, err := kv.NewMemoryKV(context.Background(), nil)
	if err != nil {
		t.Fatalf("new memory kv: %v", err)
	}

	return cache.NewCache(store, "vc")
}

func TestKey(t *testing.T) {
	c := newCache(t)

	if got := c.Key("categories", "abc"); got != "vc:categories:abc" {
		t.Fatalf("unexpected key %q", got)
	}

	long := c.Key("videos", "list", strings.Repeat("x", 100))
	if !strings.HasPrefix(long, "vc:videos:") || len(long) > len("vc:videos:")+16 {
		t.Fatalf("long key not hashed: %q", long)
	}

	if c.Key("videos", "a", "b") == c.Key("videos", "ab") {
		t.Fatal("parts must not collide when concatenated")
	}
}

func TestSetGet(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)
	key := c.Key("categories", "1")

	want := testCategory{ID: "1", Name: "Drama", IsActive: true}
	if err := cache.Set(ctx, c, key, want, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := cache.Get[testCategory](ctx, c, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestGetMiss(t *testing.T) {
	c := newCache(t)

	_, err := cache.Get[testCategory](context.Background(), c, c.Key("categories", "missing"))
	if !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestGetOrSet(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)
	key := c.Key("categories", "1")

	calls := 0
	getter := func() (testCategory, error) {
		calls++
		return testCategory{ID: "1", Name: "Drama"}, nil
	}

	for range 3 {
		v, err := cache.GetOrSet(ctx, c, key, getter, time.Minute)
		if err != nil {
			t.Fatalf("get or set: %v", err)
		}

		if v.Name != "Drama" {
			t.Fatalf("unexpected value %+v", v)
		}
	}

	if calls != 1 {
		t.Fatalf("getter called %d times, want 1", calls)
	}
}

func TestGetOrSetCoalescesConcurrentMisses(t *testing.T) {
	c := newCache(t)
	key := c.Key("categories", "2")

	var calls atomic.Int32

	release := make(chan struct{})
	getter := func() (testCategory, error) {
		calls.Add(1)
		<-release

		return testCategory{ID: "2", Name: "Comedy"}, nil
	}

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			v, err := cache.GetOrSet(context.Background(), c, key, getter, time.Minute)
			if err != nil || v.Name != "Comedy" {
				t.Errorf("unexpected result %+v, %v", v, err)
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Fatalf("getter called %d times, want 1", n)
	}
}

func TestGetOrSetError(t *testing.T) {
	c := newCache(t)
	boom := errors.New("boom")

	_, err := cache.GetOrSet(context.Background(), c, c.Key("categories", "1"), func() (testCategory, error) {
		return testCategory{}, boom
	}, time.Minute)
	if !errors.Is(err, boom) {
		t.Fatalf("expected getter error, got %v", err)
	}
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	for _, id := range []string{"1", "2"} {
		if err := cache.Set(ctx, c, c.Key("genres", id), id, time.Minute); err != nil {
			t.Fatalf("set: %v", err)
		}
	}

	if err := cache.Set(ctx, c, c.Key("videos", "1"), "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := c.Invalidate(ctx, "genres"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	for _, id := range []string{"1", "2"} {
		if ok, _ := c.Exists(ctx, c.Key("genres", id)); ok {
			t.Fatalf("genre %s should be gone", id)
		}
	}

	if ok, _ := c.Exists(ctx, c.Key("videos", "1")); !ok {
		t.Fatal("other namespaces must survive")
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if ok, _ := c.Exists(ctx, c.Key("videos", "1")); ok {
		t.Fatal("clear should remove everything under the prefix")
	}
}

func TestDeleteMissingIsNoop(t *testing.T) {
	c := newCache(t)

	if err := c.Delete(context.Background(), c.Key("videos", "nope")); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func BenchmarkGetOrSet(b *testing.B) {
	store, _ := kv.NewMemoryKV(context.Background(), nil)
	c := cache.NewCache(store, "bench")
	ctx := context.Background()
	key := c.Key("categories", "1")

	for b.Loop() {
		_, _ = cache.GetOrSet(ctx, c, key, func() (testCategory, error) {
			return testCategory{ID: "1"}, nil
		}, time.Minute)
	}
}
