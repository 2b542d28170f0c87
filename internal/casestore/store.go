// Package casestore is the access layer for the shared case cache store.
// The origin scraper service writes into the same tables; this package only
// reads and inserts placeholders.
package casestore

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/rahul-omni/legal-ai-sub001/internal/database"
	"github.com/rahul-omni/legal-ai-sub001/pkg/logger"
)

// Filter narrows a case lookup. All fields are optional; empty fields are
// omitted from the query. Values must already be lowercased (the normalizer
// does this).
type Filter struct {
	Court        string
	CaseType     string
	City         string
	District     string
	Bench        string
	CourtComplex string
}

// Store wraps the shared database handle with a short-TTL read memo.
// A single Store is created at startup and injected everywhere; handlers do
// not open their own connections.
type Store struct {
	db     *gorm.DB
	memo   *gocache.Cache
	logger *logger.Logger
}

func New(db *gorm.DB, ttl time.Duration, log *logger.Logger) *Store {
	return &Store{
		db:     db,
		memo:   gocache.New(ttl, ttl*2),
		logger: log,
	}
}

// DB exposes the underlying handle for services that need their own queries
func (s *Store) DB() *gorm.DB {
	return s.db
}

// FindByDiaryNumber returns all records matching the canonical full diary
// number, case-insensitively, narrowed by the filter.
func (s *Store) FindByDiaryNumber(ctx context.Context, fullDiaryNumber string, f Filter) ([]database.CaseRecord, error) {
	key := memoKey("diary", []string{fullDiaryNumber}, f)
	if cached, found := s.memo.Get(key); found {
		if records, ok := cached.([]database.CaseRecord); ok {
			return records, nil
		}
	}

	var records []database.CaseRecord
	q := s.db.WithContext(ctx).
		Where("LOWER(diary_number) = ?", strings.ToLower(fullDiaryNumber))
	q = applyFilter(q, f)

	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("diary number lookup failed: %w", err)
	}

	if len(records) > 0 {
		s.memo.Set(key, records, gocache.DefaultExpiration)
	}
	return records, nil
}

// FindByCaseNumberVariants returns all records whose case number matches any
// of the given variants, case-insensitively, narrowed by the filter.
func (s *Store) FindByCaseNumberVariants(ctx context.Context, variants []string, f Filter) ([]database.CaseRecord, error) {
	if len(variants) == 0 {
		return nil, nil
	}

	key := memoKey("case", variants, f)
	if cached, found := s.memo.Get(key); found {
		if records, ok := cached.([]database.CaseRecord); ok {
			return records, nil
		}
	}

	lowered := make([]string, len(variants))
	for i, v := range variants {
		lowered[i] = strings.ToLower(v)
	}

	var records []database.CaseRecord
	q := s.db.WithContext(ctx).
		Where("LOWER(case_number) IN ?", lowered)
	q = applyFilter(q, f)

	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("case number lookup failed: %w", err)
	}

	if len(records) > 0 {
		s.memo.Set(key, records, gocache.DefaultExpiration)
	}
	return records, nil
}

// CreatePlaceholder inserts a new case record for a fresh tracking request.
// The only dedup guard is the caller's prior read; concurrent first-time
// requests for the same identifier can insert duplicate placeholders.
func (s *Store) CreatePlaceholder(ctx context.Context, rec *database.CaseRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("placeholder insert failed: %w", err)
	}

	// The memo may hold stale empty-adjacent results for this key
	s.memo.Flush()

	s.logger.Info("Created placeholder case record",
		"diary_number", rec.DiaryNumber,
		"court", rec.Court,
	)
	return nil
}

// FindByID loads a single case record
func (s *Store) FindByID(ctx context.Context, id uint) (*database.CaseRecord, error) {
	var rec database.CaseRecord
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// Invalidate drops all memoized results, forcing the next reads through to
// the database. Called after the origin service reports a fetch.
func (s *Store) Invalidate() {
	s.memo.Flush()
}

// Stats reports memo cache statistics
func (s *Store) Stats() map[string]interface{} {
	return map[string]interface{}{
		"size": s.memo.ItemCount(),
	}
}

func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.Court != "" {
		q = q.Where("LOWER(court) = ?", f.Court)
	}
	if f.CaseType != "" {
		q = q.Where("LOWER(case_type) = ?", strings.ToLower(f.CaseType))
	}
	if f.City != "" {
		q = q.Where("LOWER(city) = ?", f.City)
	}
	if f.District != "" {
		q = q.Where("LOWER(district) = ?", f.District)
	}
	if f.Bench != "" {
		q = q.Where("LOWER(bench) = ?", f.Bench)
	}
	if f.CourtComplex != "" {
		q = q.Where("LOWER(court_complex) = ?", f.CourtComplex)
	}
	return q
}

func memoKey(kind string, values []string, f Filter) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s:%s:%s:%s",
		kind,
		strings.ToLower(strings.Join(values, "|")),
		f.Court, f.CaseType, f.City, f.District, f.Bench, f.CourtComplex,
	)
}
