// Package subscription links users to resolved case records and tracks
// user-submitted cases that have no record yet.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/rahul-omni/legal-ai-sub001/internal/casestore"
	"github.com/rahul-omni/legal-ai-sub001/internal/database"
	"github.com/rahul-omni/legal-ai-sub001/pkg/logger"
)

var (
	// ErrForbidden covers both "not yours" and "does not exist" so a caller
	// cannot probe for other users' subscriptions
	ErrForbidden = errors.New("subscription not accessible")

	// ErrAlreadyDeleted rejects a repeat soft-delete
	ErrAlreadyDeleted = errors.New("subscription already deleted")

	// ErrDuplicate rejects a repeated tracked-case submission
	ErrDuplicate = errors.New("case already tracked")

	// ErrCaseNotFound means the referenced case record does not exist
	ErrCaseNotFound = errors.New("case record not found")
)

// Tracker manages SubscribedCases and UserCase rows
type Tracker struct {
	store  *casestore.Store
	logger *logger.Logger
}

func NewTracker(store *casestore.Store, log *logger.Logger) *Tracker {
	return &Tracker{store: store, logger: log}
}

// Subscribe creates an ACTIVE subscription for the user on the given case
// record. If one already exists it is returned with created=false instead of
// inserting a second active row.
func (t *Tracker) Subscribe(ctx context.Context, userID string, caseID uint) (*database.SubscribedCases, bool, error) {
	db := t.store.DB().WithContext(ctx)

	if _, err := t.store.FindByID(ctx, caseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrCaseNotFound
		}
		return nil, false, fmt.Errorf("case lookup failed: %w", err)
	}

	var existing database.SubscribedCases
	err := db.Where("user_id = ? AND case_id = ? AND status = ?",
		userID, caseID, database.SubscriptionStatusActive).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("subscription lookup failed: %w", err)
	}

	sub := &database.SubscribedCases{
		UserID: userID,
		CaseID: caseID,
		Status: database.SubscriptionStatusActive,
	}
	if err := db.Create(sub).Error; err != nil {
		return nil, false, fmt.Errorf("subscription insert failed: %w", err)
	}

	t.logger.Info("Subscription created", "user_id", userID, "case_id", caseID)
	return sub, true, nil
}

// SubscribeToCaseKey subscribes the user to the case record identified by
// diary number and court, creating a placeholder record first if none
// exists. If the user already holds an active subscription to a matching
// record, it short-circuits without creating anything.
func (t *Tracker) SubscribeToCaseKey(ctx context.Context, userID string, rec database.CaseRecord) (*database.SubscribedCases, bool, error) {
	db := t.store.DB().WithContext(ctx)

	var existing database.SubscribedCases
	err := db.Joins("JOIN case_records ON case_records.id = subscribed_cases.case_id").
		Where("subscribed_cases.user_id = ? AND subscribed_cases.status = ?",
			userID, database.SubscriptionStatusActive).
		Where("LOWER(case_records.diary_number) = ? AND LOWER(case_records.court) = ?",
			strings.ToLower(rec.DiaryNumber), strings.ToLower(rec.Court)).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("subscription lookup failed: %w", err)
	}

	matches, err := t.store.FindByDiaryNumber(ctx, rec.DiaryNumber, casestore.Filter{
		Court: strings.ToLower(rec.Court),
	})
	if err != nil {
		return nil, false, err
	}

	var caseID uint
	if len(matches) > 0 {
		caseID = matches[0].ID
	} else {
		// Guarded only by the read above; concurrent first-time requests for
		// the same key can create duplicate placeholders
		if err := t.store.CreatePlaceholder(ctx, &rec); err != nil {
			return nil, false, err
		}
		caseID = rec.ID
	}

	return t.subscribeExisting(ctx, userID, caseID)
}

func (t *Tracker) subscribeExisting(ctx context.Context, userID string, caseID uint) (*database.SubscribedCases, bool, error) {
	db := t.store.DB().WithContext(ctx)

	sub := &database.SubscribedCases{
		UserID: userID,
		CaseID: caseID,
		Status: database.SubscriptionStatusActive,
	}
	if err := db.Create(sub).Error; err != nil {
		return nil, false, fmt.Errorf("subscription insert failed: %w", err)
	}
	t.logger.Info("Subscription created", "user_id", userID, "case_id", caseID)
	return sub, true, nil
}

// Unsubscribe soft-deletes a subscription after verifying ownership. The row
// is never removed; its status flips to DELETED. Repeating the call is an
// error, not a silent success.
func (t *Tracker) Unsubscribe(ctx context.Context, userID string, subscriptionID uint) error {
	db := t.store.DB().WithContext(ctx)

	var sub database.SubscribedCases
	err := db.Where("id = ? AND user_id = ?", subscriptionID, userID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrForbidden
		}
		return fmt.Errorf("subscription lookup failed: %w", err)
	}

	if sub.Status == database.SubscriptionStatusDeleted {
		return ErrAlreadyDeleted
	}

	if err := db.Model(&sub).Update("status", database.SubscriptionStatusDeleted).Error; err != nil {
		return fmt.Errorf("subscription update failed: %w", err)
	}

	t.logger.Info("Subscription soft-deleted", "user_id", userID, "subscription_id", subscriptionID)
	return nil
}

// ListActive returns the user's active subscriptions with their case records
func (t *Tracker) ListActive(ctx context.Context, userID string) ([]database.SubscribedCases, error) {
	var subs []database.SubscribedCases
	err := t.store.DB().WithContext(ctx).
		Preload("Case").
		Where("user_id = ? AND status = ?", userID, database.SubscriptionStatusActive).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("subscription list failed: %w", err)
	}
	return subs, nil
}

// TrackCase records a user-submitted case with status PENDING. A second
// submission for the same (user, diary number) is rejected, not merged.
func (t *Tracker) TrackCase(ctx context.Context, uc *database.UserCase) error {
	db := t.store.DB().WithContext(ctx)

	var count int64
	err := db.Model(&database.UserCase{}).
		Where("user_id = ? AND LOWER(diary_number) = ?", uc.UserID, strings.ToLower(uc.DiaryNumber)).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("tracked case lookup failed: %w", err)
	}
	if count > 0 {
		return ErrDuplicate
	}

	if uc.Status == "" {
		uc.Status = database.UserCaseStatusPending
	}
	if err := db.Create(uc).Error; err != nil {
		return fmt.Errorf("tracked case insert failed: %w", err)
	}

	t.logger.Info("Case tracked", "user_id", uc.UserID, "diary_number", uc.DiaryNumber)
	return nil
}
