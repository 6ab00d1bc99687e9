package content

import (
	"context"
	"testing"
	"time"

	"github.com/memberhub/memberhub-backend/pkg/kv"
)

var fixedNow = func() time.Time {
	return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (Service, kv.Store) {
	t.Helper()
	store := kv.NewMemory()
	svc, err := NewService(ServiceParams{Store: store, Now: fixedNow})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func TestPublishAssignsIDAndTimestamp(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	item, err := svc.Publish(ctx, PublishRequest{
		Title:        "Welcome pack",
		Description:  "Getting started guide",
		Instructions: "Members only: see attached steps",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if item.ID != "content_1785585600000" {
		t.Fatalf("unexpected id %q", item.ID)
	}
	if item.PublishedAt != "2026-08-01T12:00:00Z" {
		t.Fatalf("unexpected publishedAt %q", item.PublishedAt)
	}

	listed, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].Instructions != "Members only: see attached steps" {
		t.Fatalf("unexpected listing %+v", listed)
	}
}

func TestListSkipsUndecodableEntries(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	if _, err := svc.Publish(ctx, PublishRequest{Title: "Real entry"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := store.Set(ctx, "content:stray", "not-json"); err != nil {
		t.Fatalf("set stray: %v", err)
	}

	listed, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].Title != "Real entry" {
		t.Fatalf("stray entry must be dropped, got %+v", listed)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	item, err := svc.Publish(ctx, PublishRequest{Title: "Ephemeral"})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := svc.Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, item.ID); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}

	listed, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected empty library, got %+v", listed)
	}
}
