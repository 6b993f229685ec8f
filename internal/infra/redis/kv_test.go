package redis

import (
	"context"
	"sort"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestKV(t *testing.T) *KV {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewKV(rdb)
}

func TestKV_GetMissing(t *testing.T) {
	kv := newTestKV(t)

	_, ok, err := kv.Get(context.Background(), "analytics:recent")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Fatal("expected missing key")
	}
}

func TestKV_IncrCountsFromZero(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, err := kv.Incr(ctx, "analytics:page:2026-10-18:/")
		if err != nil {
			t.Fatalf("Incr: %v", err)
		}
		if n != int64(i) {
			t.Fatalf("expected %d, got %d", i, n)
		}
	}

	v, ok, err := kv.Get(ctx, "analytics:page:2026-10-18:/")
	if err != nil || !ok || v != "3" {
		t.Fatalf("expected stored value 3, got %q ok=%v err=%v", v, ok, err)
	}
}

func TestKV_ListEscapesGlobCharacters(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	for _, key := range []string{
		"analytics:page:2026-10-18:/a",
		"analytics:page:2026-10-18:/b",
		"analytics:pageX",
		"application:1",
		"analytics*:weird",
	} {
		if err := kv.Put(ctx, key, "1"); err != nil {
			t.Fatalf("Put(%s): %v", key, err)
		}
	}

	keys, err := kv.List(ctx, "analytics:page:")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "analytics:page:2026-10-18:/a" || keys[1] != "analytics:page:2026-10-18:/b" {
		t.Fatalf("unexpected keys %v", keys)
	}

	keys, err = kv.List(ctx, "analytics*")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 1 || keys[0] != "analytics*:weird" {
		t.Fatalf("expected literal '*' prefix match, got %v", keys)
	}
}

func TestKV_DeleteMany(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	_ = kv.Put(ctx, "application:1", "{}")
	_ = kv.Put(ctx, "application:list:1", "{}")
	if err := kv.Delete(ctx, "application:1", "application:list:1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	keys, _ := kv.List(ctx, "application:")
	if len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
	if err := kv.Delete(ctx); err != nil {
		t.Fatalf("Delete with no keys: %v", err)
	}
}
