// Package resolve implements the cache-aside resolution state machine:
// validate, cache lookup, trigger the origin scraper on a miss, wait for its
// writes to become visible, then look up again.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rahul-omni/legal-ai-sub001/internal/casestore"
	"github.com/rahul-omni/legal-ai-sub001/internal/database"
	"github.com/rahul-omni/legal-ai-sub001/internal/identifier"
	"github.com/rahul-omni/legal-ai-sub001/internal/origin"
	"github.com/rahul-omni/legal-ai-sub001/pkg/logger"
)

// Source tags tell callers whether a result came straight from the cache or
// only became visible after an origin fetch
const (
	SourceDatabase      = "database"
	SourceAfterScraping = "database_after_scraping"
)

// ErrNotFound means the cache stayed empty after a full resolution attempt
var ErrNotFound = errors.New("no cases found")

// ErrUnknownCourt means no resolver is registered for the requested court
var ErrUnknownCourt = errors.New("unknown court type")

// Trigger is the origin client capability the orchestrator needs
type Trigger interface {
	Trigger(ctx context.Context, req origin.Request) (*origin.TriggerResult, error)
}

// CourtResolver captures the per-court differences in the resolution flow:
// which extra fields are required, how the cache filter is built, which
// origin endpoint and payload to use, and whether the origin response
// carries a case number inline.
type CourtResolver interface {
	Court() string
	Validate(q identifier.Query) error
	CacheFilter(q identifier.Query) casestore.Filter
	OriginRequest(q identifier.Query) origin.Request
	// ExtractCaseNumber returns the case number embedded in the origin
	// response, or "" when the court's endpoint returns nothing inline and
	// the store has to be polled instead.
	ExtractCaseNumber(res *origin.TriggerResult) string
}

// Result is a terminal RESPOND state
type Result struct {
	Cases  []database.CaseRecord
	Source string
}

// Orchestrator runs the state machine over any CourtResolver. One instance
// is created at startup with the shared store handle.
type Orchestrator struct {
	store        *casestore.Store
	origin       Trigger
	resolvers    map[string]CourtResolver
	pollInterval time.Duration
	pollTimeout  time.Duration
	logger       *logger.Logger
}

func NewOrchestrator(
	store *casestore.Store,
	originClient Trigger,
	pollInterval, pollTimeout time.Duration,
	log *logger.Logger,
	resolvers ...CourtResolver,
) *Orchestrator {
	byCourt := make(map[string]CourtResolver, len(resolvers))
	for _, r := range resolvers {
		byCourt[r.Court()] = r
	}
	return &Orchestrator{
		store:        store,
		origin:       originClient,
		resolvers:    byCourt,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
		logger:       log,
	}
}

// Resolve runs the full state machine for one query. Within a request the
// order is fixed: cache lookup before trigger, wait before the re-lookup.
// Concurrent requests for the same unresolved identifier are not
// coordinated; both may trigger the origin (best-effort dedup only).
func (o *Orchestrator) Resolve(ctx context.Context, court string, params identifier.Params) (*Result, error) {
	resolver, ok := o.resolvers[court]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCourt, court)
	}

	// VALIDATE
	q, err := identifier.Normalize(params)
	if err != nil {
		return nil, err
	}
	if err := resolver.Validate(q); err != nil {
		return nil, err
	}

	// CACHE_LOOKUP
	records, err := o.lookup(ctx, resolver, q)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		o.logger.Debug("Cache hit",
			"court", court,
			"diary_number", q.FullDiaryNumber,
		)
		return &Result{Cases: records, Source: SourceDatabase}, nil
	}

	// TRIGGER_ORIGIN
	o.logger.Info("Cache miss, triggering origin fetch",
		"court", court,
		"diary_number", q.FullDiaryNumber,
	)
	res, err := o.origin.Trigger(ctx, resolver.OriginRequest(q))
	if err != nil {
		o.logger.Error("Origin fetch failed",
			"court", court,
			"diary_number", q.FullDiaryNumber,
			"error", err,
		)
		return nil, err
	}

	// The origin service writes into the shared store; drop memoized reads
	o.store.Invalidate()

	// WAIT / RECACHE_LOOKUP
	if caseNumber := resolver.ExtractCaseNumber(res); caseNumber != "" {
		records, err = o.store.FindByCaseNumberVariants(ctx, []string{caseNumber}, casestore.Filter{})
	} else {
		records, err = PollUntilVisible(ctx, o.pollInterval, o.pollTimeout,
			func(ctx context.Context) ([]database.CaseRecord, error) {
				return o.lookup(ctx, resolver, q)
			})
	}
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		o.logger.Info("Origin fetch completed but no cases matched",
			"court", court,
			"diary_number", q.FullDiaryNumber,
		)
		return nil, ErrNotFound
	}

	return &Result{Cases: records, Source: SourceAfterScraping}, nil
}

// BulkQuery pairs a court with its search parameters
type BulkQuery struct {
	Court  string            `json:"court"`
	Params identifier.Params `json:"params"`
}

// BulkResult holds the outcome of one query in a bulk resolve
type BulkResult struct {
	Query  BulkQuery
	Result *Result
	Err    error
}

// ResolveBulk resolves up to maxConcurrent queries in parallel. Individual
// failures are reported per query, not as a whole-batch error.
func (o *Orchestrator) ResolveBulk(ctx context.Context, queries []BulkQuery, maxConcurrent int) []BulkResult {
	results := make([]BulkResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, query := range queries {
		i, query := i, query
		g.Go(func() error {
			result, err := o.Resolve(gctx, query.Court, query.Params)
			results[i] = BulkResult{Query: query, Result: result, Err: err}
			return nil
		})
	}

	// Errors are captured per entry
	_ = g.Wait()
	return results
}

func (o *Orchestrator) lookup(ctx context.Context, resolver CourtResolver, q identifier.Query) ([]database.CaseRecord, error) {
	filter := resolver.CacheFilter(q)
	if q.SearchesByDiaryNumber() {
		return o.store.FindByDiaryNumber(ctx, q.FullDiaryNumber, filter)
	}
	variants := identifier.CaseNumberVariants(q.DiaryNumber, q.Year, q.CaseType)
	return o.store.FindByCaseNumberVariants(ctx, variants, filter)
}
