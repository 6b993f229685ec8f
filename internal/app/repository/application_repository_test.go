package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/suwityarat/portfolio/internal/app/model"
)

func TestApplicationRepository_CreateListDelete(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	repo := NewApplicationRepository(kv)

	older := &model.Application{
		ID:         "a1",
		Name:       "Older",
		JobDetails: model.JobDetails{Company: "Acme", Position: "SE"},
		CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := &model.Application{
		ID:         "a2",
		Name:       "Newer",
		JobDetails: model.JobDetails{Company: "Globex", Position: "SA"},
		CreatedAt:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, app := range []*model.Application{older, newer} {
		if err := repo.Create(ctx, app); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[0].ID != "a2" || items[1].ID != "a1" {
		t.Fatalf("expected newest first, got %+v", items)
	}
	if items[0].Company != "Globex" {
		t.Fatalf("expected list record to carry company, got %q", items[0].Company)
	}

	if err := repo.Delete(ctx, "a1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, "a1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if kv.Len() != 2 {
		t.Fatalf("expected full + index record of a2 only, got %d keys", kv.Len())
	}
}
