package aggregator

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/status-im/wallet-aggregator/interfaces"
)

// PoolSizer returns the number of workers for a given number of planned calls
type PoolSizer func(totalCalls int) int

// DefaultPoolSize uses half the planned calls, at least one worker.
// It trades throughput against upstream rate limits.
func DefaultPoolSize(totalCalls int) int {
	if size := totalCalls / 2; size > 1 {
		return size
	}
	return 1
}

// FixedPoolSize always returns size, at least one worker
func FixedPoolSize(size int) PoolSizer {
	return func(int) int {
		if size < 1 {
			return 1
		}
		return size
	}
}

// fetchSequentially runs the tasks one after another and stops at the first failure
func (a *Aggregator) fetchSequentially(ctx context.Context, tasks []task, fiat string, opts interfaces.Options) ([]outcome, error) {
	outcomes := make([]outcome, len(tasks))
	for i, t := range tasks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := a.run(ctx, t, fiat, opts)
		if err != nil {
			return nil, err
		}
		outcomes[i] = res
	}
	return outcomes, nil
}

// fetchConcurrently runs the tasks on a bounded pool. It returns as soon as
// every task succeeded or the first one failed. On failure the remaining tasks
// are abandoned: queued ones are skipped and running ones see a cancelled context.
func (a *Aggregator) fetchConcurrently(ctx context.Context, tasks []task, fiat string, opts interfaces.Options) ([]outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := a.poolSizer(len(tasks))
	if workers < 1 {
		workers = 1
	}
	a.logger.Debug("Starting worker pool", zap.Int("workers", workers), zap.Int("tasks", len(tasks)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	// each task owns exactly one slot; slots are read only after g.Wait returned
	outcomes := make([]outcome, len(tasks))
	failed := make(chan error, 1)
	done := make(chan error, 1)

	go func() {
		for i := range tasks {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := a.run(gctx, tasks[i], fiat, opts)
				if err != nil {
					select {
					case failed <- err:
					default:
					}
					return err
				}
				outcomes[i] = res
				return nil
			})
		}
		done <- g.Wait()
	}()

	select {
	case err := <-failed:
		return nil, err
	case err := <-done:
		// a failure may have been reported right before the group finished
		select {
		case failedErr := <-failed:
			return nil, failedErr
		default:
		}
		if err != nil {
			return nil, err
		}
		return outcomes, nil
	}
}

// run executes a single lookup and routes its result by the task kind
func (a *Aggregator) run(ctx context.Context, t task, fiat string, opts interfaces.Options) (outcome, error) {
	switch t.kind {
	case KindPrice:
		price, err := a.prices.GetPrice(ctx, t.currency, fiat, opts)
		if err != nil {
			a.recorder.OnLookup(string(t.kind), lookupStatus(err))
			return outcome{}, &LookupFailure{Kind: t.kind, Currency: t.currency, Fiat: fiat, Err: err}
		}
		a.recorder.OnLookup(string(t.kind), "success")
		return outcome{price: price, done: true}, nil

	case KindBalance:
		balance, err := a.balances.GetBalance(ctx, t.currency, strings.TrimSpace(t.address), opts)
		if err != nil {
			a.recorder.OnLookup(string(t.kind), lookupStatus(err))
			return outcome{}, &LookupFailure{Kind: t.kind, Currency: t.currency, Address: t.address, Err: err}
		}
		a.recorder.OnLookup(string(t.kind), "success")
		return outcome{balance: balance, done: true}, nil
	}

	return outcome{}, &InternalConsistencyError{Kind: t.kind, Currency: t.currency, Address: t.address, Reason: "unknown task kind"}
}

func lookupStatus(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, interfaces.ErrRateLimited):
		return "rate_limited"
	default:
		return "error"
	}
}
