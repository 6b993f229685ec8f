package repository

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/suwityarat/portfolio/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func newTestLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", Conn: sqlDB}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	if err := db.AutoMigrate(&model.ContactDelivery{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func loadDelivery(t *testing.T, db *gorm.DB, id string) model.ContactDelivery {
	t.Helper()
	var row model.ContactDelivery
	if err := db.First(&row, "message_id = ?", id).Error; err != nil {
		t.Fatalf("load %s: %v", id, err)
	}
	return row
}

func backdate(t *testing.T, db *gorm.DB, id string, at time.Time) {
	t.Helper()
	err := db.Model(&model.ContactDelivery{}).
		Where("message_id = ?", id).
		UpdateColumn("updated_at", at).Error
	if err != nil {
		t.Fatalf("backdate %s: %v", id, err)
	}
}

func TestDeliveryRepository_BeginAttemptCountsAttempts(t *testing.T) {
	db := newTestLedgerDB(t)
	repo := NewDeliveryRepository(db)
	ctx := context.Background()

	if err := repo.BeginAttempt(ctx, "m-1"); err != nil {
		t.Fatalf("first BeginAttempt: %v", err)
	}
	if err := repo.MarkFailed(ctx, "m-1", "smtp 451"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if err := repo.BeginAttempt(ctx, "m-1"); err != nil {
		t.Fatalf("second BeginAttempt: %v", err)
	}

	row := loadDelivery(t, db, "m-1")
	if row.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", row.Attempts)
	}
	if row.Status != model.DeliveryStatusPending {
		t.Fatalf("expected pending after a new attempt, got %q", row.Status)
	}
}

func TestDeliveryRepository_MarkSent(t *testing.T) {
	db := newTestLedgerDB(t)
	repo := NewDeliveryRepository(db)
	ctx := context.Background()

	if err := repo.BeginAttempt(ctx, "m-1"); err != nil {
		t.Fatalf("BeginAttempt: %v", err)
	}
	sent, err := repo.IsSent(ctx, "m-1")
	if err != nil || sent {
		t.Fatalf("pending row must not count as sent, got %v err=%v", sent, err)
	}

	if err := repo.MarkFailed(ctx, "m-1", "timeout"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if err := repo.MarkSent(ctx, "m-1"); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}

	sent, err = repo.IsSent(ctx, "m-1")
	if err != nil || !sent {
		t.Fatalf("expected sent, got %v err=%v", sent, err)
	}
	if row := loadDelivery(t, db, "m-1"); row.LastError != "" {
		t.Fatalf("expected last error cleared, got %q", row.LastError)
	}

	if sent, _ := repo.IsSent(ctx, "unknown"); sent {
		t.Fatal("unknown id must not count as sent")
	}
}

func TestDeliveryRepository_SentSince(t *testing.T) {
	db := newTestLedgerDB(t)
	repo := NewDeliveryRepository(db)
	ctx := context.Background()
	now := time.Now()

	for _, id := range []string{"recent", "old", "pending"} {
		if err := repo.BeginAttempt(ctx, id); err != nil {
			t.Fatalf("BeginAttempt(%s): %v", id, err)
		}
	}
	for _, id := range []string{"recent", "old"} {
		if err := repo.MarkSent(ctx, id); err != nil {
			t.Fatalf("MarkSent(%s): %v", id, err)
		}
	}
	backdate(t, db, "old", now.Add(-48*time.Hour))

	ids, err := repo.SentSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("SentSince: %v", err)
	}
	sort.Strings(ids)
	if len(ids) != 1 || ids[0] != "recent" {
		t.Fatalf("expected only the recent sent id, got %v", ids)
	}
}

func TestDeliveryRepository_FailStalePending(t *testing.T) {
	db := newTestLedgerDB(t)
	repo := NewDeliveryRepository(db)
	ctx := context.Background()
	now := time.Now()

	for _, id := range []string{"stale", "fresh", "sent-old"} {
		if err := repo.BeginAttempt(ctx, id); err != nil {
			t.Fatalf("BeginAttempt(%s): %v", id, err)
		}
	}
	if err := repo.MarkSent(ctx, "sent-old"); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}
	backdate(t, db, "stale", now.Add(-time.Hour))
	backdate(t, db, "sent-old", now.Add(-time.Hour))

	affected, err := repo.FailStalePending(ctx, now.Add(-10*time.Minute))
	if err != nil {
		t.Fatalf("FailStalePending: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected one stale row, got %d", affected)
	}

	if row := loadDelivery(t, db, "stale"); row.Status != model.DeliveryStatusFailed || row.LastError == "" {
		t.Fatalf("expected stale row failed with a reason, got %+v", row)
	}
	if row := loadDelivery(t, db, "fresh"); row.Status != model.DeliveryStatusPending {
		t.Fatalf("fresh pending row must stay pending, got %q", row.Status)
	}
	if row := loadDelivery(t, db, "sent-old"); row.Status != model.DeliveryStatusSent {
		t.Fatalf("sent rows must not be touched, got %q", row.Status)
	}
}
