package kv

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRedisStoreGetAbsentIsNotAnError(t *testing.T) {
	ctx := context.Background()
	store := &RedisStore{store: newMockCmdable()}

	value, ok, err := store.Get(ctx, "user:missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected absent key, got value %q", value)
	}
}

func TestRedisStoreSetGetDelRoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	store := &RedisStore{store: mock}

	if err := store.Set(ctx, "package:pkg1", `{"id":"pkg1"}`); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, ok := mock.data["mh:package:pkg1"]; !ok {
		t.Fatalf("expected namespaced key, have %v", mock.data)
	}

	value, ok, err := store.Get(ctx, "package:pkg1")
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if value != `{"id":"pkg1"}` {
		t.Fatalf("unexpected value %q", value)
	}

	if err := store.Del(ctx, "package:pkg1"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "package:pkg1"); ok {
		t.Fatalf("expected key gone after delete")
	}

	// Deleting again must stay silent.
	if err := store.Del(ctx, "package:pkg1"); err != nil {
		t.Fatalf("second delete should be idempotent: %v", err)
	}
}

func TestRedisStoreGetByPrefix(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	store := &RedisStore{store: mock}

	for i := 0; i < 3; i++ {
		key := fmt.Sprintf("content:content_%d", i)
		if err := store.Set(ctx, key, fmt.Sprintf(`{"id":%d}`, i)); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}
	if err := store.Set(ctx, "user:abc", `{"id":"abc"}`); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	values, err := store.GetByPrefix(ctx, "content:")
	if err != nil {
		t.Fatalf("prefix scan failed: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 content values, got %d: %v", len(values), values)
	}

	empty, err := store.GetByPrefix(ctx, "package:")
	if err != nil {
		t.Fatalf("prefix scan failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no package values, got %v", empty)
	}
}

func TestRedisStoreCounterBumps(t *testing.T) {
	ctx := context.Background()
	store := &RedisStore{store: newMockCmdable()}

	if n, err := store.Incr(ctx, "user:count"); err != nil || n != 1 {
		t.Fatalf("first incr: n=%d err=%v", n, err)
	}
	if n, err := store.Incr(ctx, "user:count"); err != nil || n != 2 {
		t.Fatalf("second incr: n=%d err=%v", n, err)
	}
	if n, err := store.DecrFloor(ctx, "user:count"); err != nil || n != 1 {
		t.Fatalf("decr: n=%d err=%v", n, err)
	}
	if n, err := store.DecrFloor(ctx, "user:count"); err != nil || n != 0 {
		t.Fatalf("decr to zero: n=%d err=%v", n, err)
	}
	// Floored: never goes below zero.
	if n, err := store.DecrFloor(ctx, "user:count"); err != nil || n != 0 {
		t.Fatalf("decr below zero: n=%d err=%v", n, err)
	}
}

type mockCmdable struct {
	data map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (m *mockCmdable) Incr(_ context.Context, key string) *redis.IntCmd {
	current, _ := strconv.ParseInt(m.data[key], 10, 64)
	current++
	m.data[key] = strconv.FormatInt(current, 10)
	return redis.NewIntResult(current, nil)
}

func (m *mockCmdable) Decr(_ context.Context, key string) *redis.IntCmd {
	current, _ := strconv.ParseInt(m.data[key], 10, 64)
	current--
	m.data[key] = strconv.FormatInt(current, 10)
	return redis.NewIntResult(current, nil)
}

func (m *mockCmdable) Scan(_ context.Context, _ uint64, match string, _ int64) *redis.ScanCmd {
	prefix := strings.TrimSuffix(match, "*")
	var keys []string
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	cmd := redis.NewScanCmd(context.Background(), nil)
	cmd.SetVal(keys, 0)
	return cmd
}

func (m *mockCmdable) MGet(_ context.Context, keys ...string) *redis.SliceCmd {
	values := make([]any, 0, len(keys))
	for _, key := range keys {
		if v, ok := m.data[key]; ok {
			values = append(values, v)
		} else {
			values = append(values, nil)
		}
	}
	cmd := redis.NewSliceCmd(context.Background())
	cmd.SetVal(values)
	return cmd
}
