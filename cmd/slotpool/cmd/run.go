package cmd

import (
	"context"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/onflow/flow-slotpool/config"
	"github.com/onflow/flow-slotpool/module"
	"github.com/onflow/flow-slotpool/module/irrecoverable"
	"github.com/onflow/flow-slotpool/module/metrics"
	"github.com/onflow/flow-slotpool/module/slotpool"
)

// run wires the pool, its metrics server and the shell, and blocks until the shell returns or ctx
// is cancelled. An exception thrown by the shell is returned as is.
func run(ctx context.Context, c *config.Config, logger zerolog.Logger, in io.Reader, out io.Writer) error {
	registry := prometheus.NewRegistry()
	var collector module.SlotPoolMetrics = metrics.NewNoopCollector()
	if c.Metrics.Enabled {
		collector = metrics.DefaultSlotPoolMetricsFactory(c.Metrics.Namespace, registry)
	}
	backend := slotpool.NewBackend(c.Capacity, logger, collector)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	if c.Metrics.Enabled {
		server := metrics.NewServer(logger, c.Metrics.Port, registry, c.ShutdownTimeout)
		g.Go(server.ListenAndServe)
		g.Go(func() error {
			<-gCtx.Done()
			return server.Shutdown()
		})
	}

	signalerCtx, errs := irrecoverable.WithSignalerContext(gCtx)
	g.Go(func() error {
		// the other workers stop with the shell, also when it throws.
		defer cancel()
		return NewRepl(backend, in, out, logger).Run(signalerCtx)
	})
	g.Go(func() error {
		<-gCtx.Done()
		// a thrown exception is buffered before the shell cancels the context.
		select {
		case err := <-errs:
			return err
		default:
			return nil
		}
	})

	return g.Wait()
}
