package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/suwityarat/portfolio/internal/app/model"
)

func TestAnalyticsRepository_PushRecentCapsAndOrders(t *testing.T) {
	ctx := context.Background()
	repo := NewAnalyticsRepository(NewMemoryKV())

	for i := 0; i < model.RecentEventsLimit+1; i++ {
		ev := &model.AnalyticsEvent{ID: fmt.Sprintf("e%d", i), Type: model.EventPageView, Page: "/"}
		if err := repo.PushRecent(ctx, ev); err != nil {
			t.Fatalf("PushRecent(%d): %v", i, err)
		}
	}

	recent, err := repo.Recent(ctx)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != model.RecentEventsLimit {
		t.Fatalf("expected %d events, got %d", model.RecentEventsLimit, len(recent))
	}
	if recent[0].ID != "e50" {
		t.Fatalf("expected newest first, got %s", recent[0].ID)
	}
	for _, ev := range recent {
		if ev.ID == "e0" {
			t.Fatal("oldest event should have been evicted")
		}
	}
}

func TestAnalyticsRepository_PageCountsKeepsColonsInPath(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	repo := NewAnalyticsRepository(kv)

	for i := 0; i < 3; i++ {
		if _, err := repo.IncrementPage(ctx, "2026-10-18", "/a:b"); err != nil {
			t.Fatalf("IncrementPage: %v", err)
		}
	}
	if _, err := repo.IncrementPage(ctx, "2026-10-17", "/a:b"); err != nil {
		t.Fatalf("IncrementPage: %v", err)
	}

	counts, err := repo.PageCounts(ctx, "2026-10-18")
	if err != nil {
		t.Fatalf("PageCounts: %v", err)
	}
	if counts["/a:b"] != 3 {
		t.Fatalf("expected 3 views for /a:b, got %v", counts)
	}
}

func TestAnalyticsRepository_DeleteAllOnlyTouchesAnalytics(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	repo := NewAnalyticsRepository(kv)

	_ = kv.Put(ctx, "application:1", "{}")
	_ = repo.SaveEvent(ctx, &model.AnalyticsEvent{ID: "x", Type: model.EventDownload})
	_, _ = repo.IncrementAction(ctx, "2026-10-18", "resume.pdf")

	n, err := repo.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 keys deleted, got %d", n)
	}
	if _, ok, _ := kv.Get(ctx, "application:1"); !ok {
		t.Fatal("application key should survive an analytics reset")
	}
}
