//go:build integration

package notice

import (
	"context"
	"os"
	"testing"
)

func TestRedisStore_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), 0)
	defer func() { _ = client.Close() }()

	store := NewRedisStore(client, "listings-test:")
	ctx := context.Background()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Redis not reachable at %s: %v", addr, err)
	}

	key := NewClientID()
	t.Cleanup(func() { client.Del(context.Background(), "listings-test:"+key) })

	got, err := store.Get(ctx, key)
	if err != nil || got {
		t.Fatalf("Get() on missing key = %v, %v; want false, nil", got, err)
	}

	if err := store.Set(ctx, key, true); err != nil {
		t.Fatalf("Set() unexpected error = %v", err)
	}
	if got, err := store.Get(ctx, key); err != nil || !got {
		t.Errorf("Get() after Set(true) = %v, %v", got, err)
	}

	if err := store.Set(ctx, key, false); err != nil {
		t.Fatalf("Set() unexpected error = %v", err)
	}
	if got, _ := store.Get(ctx, key); got {
		t.Error("Get() after Set(false) = true")
	}
}
