package auth

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"
)

func TestMemoryRevocation(t *testing.T) {
	store := NewMemoryRevocationStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	if ok, _ := store.IsRevoked(ctx, "unknown"); ok {
		t.Error("unknown jti reported revoked")
	}
	if err := store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if ok, _ := store.IsRevoked(ctx, "jti-1"); !ok {
		t.Error("expected jti-1 revoked")
	}
}

func TestMemoryRevocation_Cleanup(t *testing.T) {
	store := NewMemoryRevocationStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }
	_ = store.Revoke(ctx, "expired", now.Add(-time.Minute))
	_ = store.Revoke(ctx, "live", now.Add(time.Minute))

	store.cleanup()

	if store.Count() != 1 {
		t.Fatalf("expected 1 entry after cleanup, got %d", store.Count())
	}
	if ok, _ := store.IsRevoked(ctx, "live"); !ok {
		t.Error("live entry must survive cleanup")
	}
}

func TestMemoryRevocation_CloseTwice(t *testing.T) {
	store := NewMemoryRevocationStore(time.Hour)
	store.Close()
	store.Close()
}

func TestMemoryRevocation_Concurrent(t *testing.T) {
	store := NewMemoryRevocationStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			jti := string(rune('a' + i%26))
			_ = store.Revoke(ctx, jti, time.Now().Add(time.Hour))
			_, _ = store.IsRevoked(ctx, jti)
		}(i)
	}
	wg.Wait()
	if store.Count() != 26 {
		t.Errorf("expected 26 distinct entries, got %d", store.Count())
	}
}

// Runs against a real server only when HMS_TEST_REDIS_URL is set.
func TestRedisRevocation(t *testing.T) {
	url := os.Getenv("HMS_TEST_REDIS_URL")
	if url == "" {
		t.Skip("HMS_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	rdb, err := NewRedisClient(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer rdb.Close()

	store := NewRedisRevocationStore(rdb)
	jti := "test-" + time.Now().Format("150405.000000000")
	if err := store.Revoke(ctx, jti, time.Now().Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	ok, err := store.IsRevoked(ctx, jti)
	if err != nil || !ok {
		t.Fatalf("expected revoked, got %v %v", ok, err)
	}

	if err := store.Revoke(ctx, "already-expired", time.Now().Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}
	if ok, _ := store.IsRevoked(ctx, "already-expired"); ok {
		t.Error("expired token should not be stored")
	}
}
