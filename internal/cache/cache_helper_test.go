package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T, prefix string) (*miniredis.Miniredis, *CacheHelper) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewCacheHelper(client, prefix)
}

type cachedCourse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestCacheHelper_SetGet(t *testing.T) {
	ctx := context.Background()
	_, helper := newTestCache(t, "course:")

	want := cachedCourse{ID: "c1", Title: "Algebra Basics"}
	if err := helper.Set(ctx, "c1", want, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got cachedCourse
	if err := helper.Get(ctx, "c1", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	var missing cachedCourse
	if err := helper.Get(ctx, "nope", &missing); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	mr, helper := newTestCache(t, "dashboard:")

	if err := helper.Set(ctx, "t1", cachedCourse{ID: "t1"}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	var got cachedCourse
	if err := helper.Get(ctx, "t1", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected expiry, got %v", err)
	}
}

func TestCacheHelper_Delete(t *testing.T) {
	ctx := context.Background()
	_, helper := newTestCache(t, "course:")

	for _, key := range []string{"a", "b", "c"} {
		if err := helper.Set(ctx, key, cachedCourse{ID: key}, time.Minute); err != nil {
			t.Fatalf("Set %s failed: %v", key, err)
		}
	}

	if err := helper.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if ok, _ := helper.Exists(ctx, "a"); ok {
		t.Error("key a should be gone")
	}
	if ok, _ := helper.Exists(ctx, "c"); !ok {
		t.Error("key c should survive")
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	ctx := context.Background()
	_, helper := newTestCache(t, "course:")

	keys := []string{"tenant1:list:1", "tenant1:list:2", "tenant2:list:1"}
	for _, key := range keys {
		if err := helper.Set(ctx, key, cachedCourse{ID: key}, time.Minute); err != nil {
			t.Fatalf("Set %s failed: %v", key, err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "tenant1:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	if ok, _ := helper.Exists(ctx, "tenant1:list:1"); ok {
		t.Error("tenant1 keys should be invalidated")
	}
	if ok, _ := helper.Exists(ctx, "tenant2:list:1"); !ok {
		t.Error("tenant2 keys should survive")
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(nil, "course:")

	if err := helper.Set(ctx, "k", cachedCourse{}, time.Minute); err != nil {
		t.Errorf("Set with nil client should be a no-op, got %v", err)
	}
	var got cachedCourse
	if err := helper.Get(ctx, "k", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}
	if err := helper.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete with nil client should be a no-op, got %v", err)
	}
}

func TestCacheOrExecute(t *testing.T) {
	ctx := context.Background()
	_, helper := newTestCache(t, "course:")

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return cachedCourse{ID: "c9", Title: "Fetched"}, nil
	}

	var got cachedCourse
	if err := helper.CacheOrExecute(ctx, "c9", &got, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 || got.Title != "Fetched" {
		t.Fatalf("expected one fetch, got calls=%d value=%+v", calls, got)
	}

	// The write-behind is asynchronous; wait for the key to land before
	// asserting the second call is served from cache.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if ok, _ := helper.Exists(ctx, "c9"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("cached value never appeared")
		}
		time.Sleep(10 * time.Millisecond)
	}

	var again cachedCourse
	if err := helper.CacheOrExecute(ctx, "c9", &again, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("second call should hit the cache, fetch ran %d times", calls)
	}
}
