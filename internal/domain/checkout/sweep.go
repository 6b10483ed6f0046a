package checkout

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SweepResult summarises one pass of the pending-order sweep.
type SweepResult struct {
	// Examined is the number of stale PENDING orders found.
	Examined int
	// Settled counts orders reconciled to a terminal state via the gateway.
	Settled int64
	// Abandoned counts tokenless orders marked FAILED.
	Abandoned int64
	// Unresolved counts orders the gateway could not settle this pass.
	Unresolved int64
}

// SweepPending reconciles PENDING orders created before cutoff.
//
// Orders that hold a token are re-confirmed against the gateway, reusing the
// same conditional write as the callback path, so a sweep racing a late
// gateway redirect is harmless. Orders that never received a token cannot be
// settled remotely and are marked FAILED. Gateway confirms run concurrently,
// bounded by concurrency.
func (s *Service) SweepPending(ctx context.Context, cutoff time.Time, concurrency int) (*SweepResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	stale, err := s.orders.ListStalePending(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list stale pending orders: %w", err)
	}

	res := &SweepResult{Examined: len(stale)}
	var settled, abandoned, unresolved atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, o := range stale {
		g.Go(func() error {
			if o.GatewayToken == nil {
				ok, err := s.orders.FailAbandoned(ctx, o.ID)
				if err != nil {
					return fmt.Errorf("fail abandoned order %d: %w", o.ID, err)
				}
				if ok {
					abandoned.Add(1)
				}
				return nil
			}

			switch out := s.Reconcile(ctx, *o.GatewayToken); out {
			case OutcomeError:
				unresolved.Add(1)
			default:
				settled.Add(1)
				zctx.From(ctx).Info("Stale order settled",
					zap.Int64("order_id", o.ID),
					zap.String("outcome", string(out)),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Settled = settled.Load()
	res.Abandoned = abandoned.Load()
	res.Unresolved = unresolved.Load()
	return res, nil
}
