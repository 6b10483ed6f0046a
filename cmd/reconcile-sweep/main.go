// Command reconcile-sweep makes one pass over stale PENDING orders: orders
// holding a gateway token are re-confirmed against the provider, tokenless
// ones are marked FAILED as abandoned checkouts. Intended to run periodically
// (cron or a scheduled job).
package main

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	appkg "github.com/starshard/storefront/internal/app"
	"github.com/starshard/storefront/internal/domain/checkout"
	"github.com/starshard/storefront/internal/gateway"
	"github.com/starshard/storefront/internal/repository"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, _ *app.Telemetry) error {
		cfg, err := appkg.LoadConfig()
		if err != nil {
			return err
		}

		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		gatewayClient := gateway.NewClient(gateway.Config{
			BaseURL:      cfg.Gateway.BaseURL,
			CommerceCode: cfg.Gateway.CommerceCode,
			APIKey:       cfg.Gateway.APIKey,
			Timeout:      cfg.Gateway.Timeout,
		})
		svc := checkout.NewService(repository.NewOrderStore(pool), gatewayClient, cfg.ReturnURL())

		cutoff := time.Now().Add(-cfg.Sweep.OlderThan)
		lg.Info("Sweeping pending orders",
			zap.Time("cutoff", cutoff),
			zap.Int("concurrency", cfg.Sweep.Concurrency),
		)

		res, err := svc.SweepPending(ctx, cutoff, cfg.Sweep.Concurrency)
		if err != nil {
			return errors.Wrap(err, "sweep")
		}

		lg.Info("Sweep finished",
			zap.Int("examined", res.Examined),
			zap.Int64("settled", res.Settled),
			zap.Int64("abandoned", res.Abandoned),
			zap.Int64("unresolved", res.Unresolved),
		)
		return nil
	})
}
