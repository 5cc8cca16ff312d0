package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	return NewFromStore(raw), mr
}

func TestKeyNamespacing(t *testing.T) {
	c := &Client{}
	if got := c.IdempotencyKey("scope", "abc"); got != "tk:idempotency:scope:abc" {
		t.Fatalf("unexpected idempotency key %q", got)
	}
	if got := c.MarkPaidKey("g1", "TK-000001"); got != "tk:markpaid:g1:TK-000001" {
		t.Fatalf("unexpected mark-paid key %q", got)
	}
}

func TestSetNXAndGet(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "tk:test:key", "v1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first SetNX: ok=%v err=%v", ok, err)
	}
	ok, err = c.SetNX(ctx, "tk:test:key", "v2", time.Minute)
	if err != nil {
		t.Fatalf("second SetNX: %v", err)
	}
	if ok {
		t.Fatal("second SetNX should not win")
	}

	val, err := c.Get(ctx, "tk:test:key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if val != "v1" {
		t.Fatalf("expected v1, got %q", val)
	}
}

func TestFlagExpiry(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	key := c.MarkPaidKey("group", "TK-000007")
	if err := c.Set(ctx, key, "1", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := c.Get(ctx, key); err == nil {
		t.Fatal("expected flag to expire")
	}
}
