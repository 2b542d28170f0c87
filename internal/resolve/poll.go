package resolve

import (
	"context"
	"time"

	"github.com/rahul-omni/legal-ai-sub001/internal/database"
)

// PollUntilVisible repeatedly runs fetch until it returns rows or the
// timeout elapses. The origin service persists asynchronously, so the first
// check happens only after one interval has passed.
func PollUntilVisible(
	ctx context.Context,
	interval, timeout time.Duration,
	fetch func(context.Context) ([]database.CaseRecord, error),
) ([]database.CaseRecord, error) {
	deadline := time.Now().Add(timeout)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}

		records, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			return records, nil
		}

		if time.Now().After(deadline) {
			return nil, nil
		}
	}
}
