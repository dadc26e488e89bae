// Package retry wraps go-retry around bus.Execute so callers racing the
// optimistic-concurrency check on a hot aggregate (spec §9, a busy
// Field or Turn row under concurrent players) don't have to hand-roll
// a backoff loop.
package retry

import (
	"context"
	"time"

	goretry "github.com/sethvargo/go-retry"

	"github.com/dungeoncrawl/engine/internal/bus"
	"github.com/dungeoncrawl/engine/internal/errs"
)

// Command executes cmd through b, retrying with a capped Fibonacci
// backoff whenever the attempt fails on ErrOptimisticLock. Any other
// error is returned immediately without retrying.
func Command(ctx context.Context, b *bus.Bus, cmd bus.Command, maxRetries uint64) (any, error) {
	backoff, err := goretry.NewFibonacci(25 * time.Millisecond)
	if err != nil {
		return nil, err
	}
	backoff = goretry.WithMaxRetries(maxRetries, backoff)

	var result any
	err = goretry.Do(ctx, backoff, func(ctx context.Context) error {
		r, execErr := b.Execute(ctx, cmd)
		if execErr == nil {
			result = r
			return nil
		}
		if e, ok := execErr.(*errs.Error); ok && e.Is(errs.ErrOptimisticLock) {
			return goretry.RetryableError(execErr)
		}
		return execErr
	})
	return result, err
}
