// Package monitor periodically re-evaluates every component so alerts
// fire even when stock drifts without an API write (manual database
// edits, imports, clock-driven escalations).
package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/voltline/inventory-backend/internal/repository"
	"github.com/voltline/inventory-backend/internal/service"
)

const defaultWorkers = 4

// Evaluator is the alert pipeline entry point. Satisfied by
// service.AlertService.
type Evaluator interface {
	HandleStockChanged(ctx context.Context, componentID uuid.UUID) (*service.AlertOutcome, error)
}

// SweepResult summarizes one pass over the inventory.
type SweepResult struct {
	Evaluated  int `json:"evaluated"`
	AlertsSent int `json:"alerts_sent"`
	Failures   int `json:"failures"`
}

// Sweeper walks all components and runs each through the alert
// pipeline with bounded concurrency. Per-component serialization is
// the pipeline's job; the sweeper only fans out.
type Sweeper struct {
	components repository.ComponentRepository
	alerts     Evaluator
	workers    int
}

func NewSweeper(components repository.ComponentRepository, alerts Evaluator, workers int) *Sweeper {
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Sweeper{components: components, alerts: alerts, workers: workers}
}

// Sweep evaluates every component once. Individual failures are logged
// and counted; only listing the inventory itself can fail the sweep.
func (s *Sweeper) Sweep(ctx context.Context) (SweepResult, error) {
	started := time.Now()

	ids, err := s.components.ListIDs(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	var sent, failures atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			outcome, err := s.alerts.HandleStockChanged(gctx, id)
			if err != nil {
				failures.Add(1)
				log.Error().Err(err).Str("component_id", id.String()).Msg("sweep evaluation failed")
				return nil
			}
			if outcome.Sent {
				sent.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{
		Evaluated:  len(ids),
		AlertsSent: int(sent.Load()),
		Failures:   int(failures.Load()),
	}

	log.Info().
		Int("evaluated", result.Evaluated).
		Int("alerts_sent", result.AlertsSent).
		Int("failures", result.Failures).
		Dur("took", time.Since(started)).
		Msg("inventory sweep finished")

	return result, nil
}

// Run sweeps on a fixed interval until the context is cancelled. The
// first sweep runs immediately.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(ctx); err != nil {
			log.Error().Err(err).Msg("inventory sweep failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
