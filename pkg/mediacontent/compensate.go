package mediacontent

import (
	"context"
	"log/slog"
	"sync"
)

// compensable is one unit of remote work paired with its cleanup. do returns
// the remote reference the undo needs; undo must tolerate being called for
// work whose effects the caller can no longer observe.
type compensable[T any] struct {
	do   func(ctx context.Context) (T, error)
	undo func(ctx context.Context, result T) error
}

// runAllOrUndo starts every task concurrently and waits for all of them to
// settle. When every task succeeds, results are returned indexed by task, so
// assembly order follows input order rather than completion order. When any
// task fails, the undo of every task that did succeed is invoked best-effort,
// the results of those compensated tasks are returned as undone, and the
// first failure (by input position) is surfaced. Undo failures are logged
// only; the primary error dominates.
func runAllOrUndo[T any](ctx context.Context, log *slog.Logger, tasks []compensable[T]) (results []T, undone []T, err error) {
	results = make([]T, len(tasks))
	errs := make([]error, len(tasks))

	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, task := range tasks {
		go func(i int, task compensable[T]) {
			defer wg.Done()
			results[i], errs[i] = task.do(ctx)
		}(i, task)
	}
	wg.Wait()

	var firstErr error
	for _, err := range errs {
		if err != nil {
			firstErr = err
			break
		}
	}
	if firstErr == nil {
		return results, nil, nil
	}

	// Partial failure: everything that succeeded is an orphan now.
	for i, task := range tasks {
		if errs[i] != nil {
			continue
		}
		undone = append(undone, results[i])
		if task.undo == nil {
			continue
		}
		if err := task.undo(ctx, results[i]); err != nil {
			log.Warn("compensation failed, remote blob may be orphaned",
				"task", i, "error", err)
		}
	}
	return nil, undone, firstErr
}
