package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rahul-omni/legal-ai-sub001/internal/casestore"
	"github.com/rahul-omni/legal-ai-sub001/internal/database"
	"github.com/rahul-omni/legal-ai-sub001/pkg/logger"
)

func setupTracker(t *testing.T) (*Tracker, *casestore.Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	store := casestore.New(db, 30*time.Second, logger.NewNop())
	return NewTracker(store, logger.NewNop()), store
}

func seedCase(t *testing.T, store *casestore.Store, rec *database.CaseRecord) *database.CaseRecord {
	t.Helper()
	if err := store.DB().Create(rec).Error; err != nil {
		t.Fatalf("Failed to seed case record: %v", err)
	}
	return rec
}

func TestSubscribeCreatesOnce(t *testing.T) {
	tracker, store := setupTracker(t)
	ctx := context.Background()

	rec := seedCase(t, store, &database.CaseRecord{DiaryNumber: "1/2024", Court: "Supreme Court"})

	sub, created, err := tracker.Subscribe(ctx, "user-1", rec.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !created {
		t.Fatal("Expected first subscribe to create")
	}
	if sub.Status != database.SubscriptionStatusActive {
		t.Errorf("Expected ACTIVE status, got %q", sub.Status)
	}

	// Second subscribe must not add another active row
	again, created, err := tracker.Subscribe(ctx, "user-1", rec.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if created {
		t.Error("Expected duplicate subscribe to report already-exists")
	}
	if again.ID != sub.ID {
		t.Errorf("Expected the existing row back, got %d vs %d", again.ID, sub.ID)
	}

	var count int64
	store.DB().Model(&database.SubscribedCases{}).
		Where("user_id = ? AND case_id = ? AND status = ?", "user-1", rec.ID, database.SubscriptionStatusActive).
		Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly 1 active row, got %d", count)
	}
}

func TestSubscribeUnknownCase(t *testing.T) {
	tracker, _ := setupTracker(t)

	_, _, err := tracker.Subscribe(context.Background(), "user-1", 999)
	if !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("Expected ErrCaseNotFound, got %v", err)
	}
}

func TestSubscribeToCaseKeyCreatesPlaceholder(t *testing.T) {
	tracker, store := setupTracker(t)
	ctx := context.Background()

	sub, created, err := tracker.SubscribeToCaseKey(ctx, "user-1", database.CaseRecord{
		DiaryNumber: "55/2024",
		Court:       "High Court",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !created {
		t.Fatal("Expected subscription to be created")
	}

	var rec database.CaseRecord
	if err := store.DB().First(&rec, sub.CaseID).Error; err != nil {
		t.Fatalf("Expected a placeholder case record: %v", err)
	}
	if rec.DiaryNumber != "55/2024" {
		t.Errorf("Placeholder has wrong diary number %q", rec.DiaryNumber)
	}
}

func TestSubscribeToCaseKeyShortCircuitsWhenActive(t *testing.T) {
	tracker, store := setupTracker(t)
	ctx := context.Background()

	key := database.CaseRecord{DiaryNumber: "55/2024", Court: "High Court"}
	first, _, err := tracker.SubscribeToCaseKey(ctx, "user-1", key)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	second, created, err := tracker.SubscribeToCaseKey(ctx, "user-1", key)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if created {
		t.Error("Expected already-subscribed short circuit")
	}
	if second.ID != first.ID {
		t.Errorf("Expected the existing subscription, got %d vs %d", second.ID, first.ID)
	}

	var count int64
	store.DB().Model(&database.CaseRecord{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected no duplicate placeholder, found %d records", count)
	}
}

func TestUnsubscribeSoftDeletes(t *testing.T) {
	tracker, store := setupTracker(t)
	ctx := context.Background()

	rec := seedCase(t, store, &database.CaseRecord{DiaryNumber: "2/2024"})
	sub, _, err := tracker.Subscribe(ctx, "user-1", rec.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := tracker.Unsubscribe(ctx, "user-1", sub.ID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Row is kept, status flipped
	var stored database.SubscribedCases
	if err := store.DB().First(&stored, sub.ID).Error; err != nil {
		t.Fatalf("Soft delete must keep the row: %v", err)
	}
	if stored.Status != database.SubscriptionStatusDeleted {
		t.Errorf("Expected DELETED status, got %q", stored.Status)
	}

	// Repeating the soft delete is an error, not a no-op
	if err := tracker.Unsubscribe(ctx, "user-1", sub.ID); !errors.Is(err, ErrAlreadyDeleted) {
		t.Errorf("Expected ErrAlreadyDeleted, got %v", err)
	}
}

func TestUnsubscribeOwnershipDoesNotLeak(t *testing.T) {
	tracker, store := setupTracker(t)
	ctx := context.Background()

	rec := seedCase(t, store, &database.CaseRecord{DiaryNumber: "3/2024"})
	sub, _, err := tracker.Subscribe(ctx, "user-1", rec.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Wrong owner and nonexistent id must be indistinguishable
	errOther := tracker.Unsubscribe(ctx, "user-2", sub.ID)
	errMissing := tracker.Unsubscribe(ctx, "user-2", 9999)

	if !errors.Is(errOther, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for wrong owner, got %v", errOther)
	}
	if !errors.Is(errMissing, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for missing row, got %v", errMissing)
	}
}

func TestTrackCaseRejectsDuplicates(t *testing.T) {
	tracker, _ := setupTracker(t)
	ctx := context.Background()

	uc := &database.UserCase{UserID: "user-1", DiaryNumber: "100/2024", Court: "Supreme Court"}
	if err := tracker.TrackCase(ctx, uc); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if uc.Status != database.UserCaseStatusPending {
		t.Errorf("Expected PENDING status, got %q", uc.Status)
	}

	dup := &database.UserCase{UserID: "user-1", DiaryNumber: "100/2024"}
	if err := tracker.TrackCase(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	// A different user may track the same case
	other := &database.UserCase{UserID: "user-2", DiaryNumber: "100/2024"}
	if err := tracker.TrackCase(ctx, other); err != nil {
		t.Errorf("Unexpected error for second user: %v", err)
	}
}

func TestListActiveExcludesDeleted(t *testing.T) {
	tracker, store := setupTracker(t)
	ctx := context.Background()

	recA := seedCase(t, store, &database.CaseRecord{DiaryNumber: "10/2024"})
	recB := seedCase(t, store, &database.CaseRecord{DiaryNumber: "11/2024"})

	subA, _, _ := tracker.Subscribe(ctx, "user-1", recA.ID)
	tracker.Subscribe(ctx, "user-1", recB.ID)

	if err := tracker.Unsubscribe(ctx, "user-1", subA.ID); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	subs, err := tracker.ListActive(ctx, "user-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("Expected 1 active subscription, got %d", len(subs))
	}
	if subs[0].CaseID != recB.ID {
		t.Errorf("Expected the surviving subscription, got case %d", subs[0].CaseID)
	}
}
