package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"medreps/internal/events"
	"medreps/internal/metrics"
	"medreps/internal/models"
)

// Counters is the incremental dashboard counter store.
type Counters interface {
	AddPlan(ctx context.Context, doctors int) error
	AddReport(ctx context.Context) error
	AddHospital(ctx context.Context) error
	Replace(ctx context.Context, stats models.DashboardStats) error
}

type StatsScanner interface {
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
}

type RollupSource interface {
	PerformanceRollup(ctx context.Context) (models.PerformanceRollup, error)
}

type SnapshotWriter interface {
	PutSnapshot(ctx context.Context, at time.Time, v any) (string, error)
}

type Processor struct {
	counters  Counters
	scanner   StatsScanner
	rollups   RollupSource
	snapshots SnapshotWriter
	logger    zerolog.Logger
	now       func() time.Time
}

// NewProcessor builds the worker's message handler. snapshots may be nil,
// in which case snapshot jobs are skipped.
func NewProcessor(counters Counters, scanner StatsScanner, rollups RollupSource, snapshots SnapshotWriter, logger zerolog.Logger) *Processor {
	return &Processor{
		counters:  counters,
		scanner:   scanner,
		rollups:   rollups,
		snapshots: snapshots,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	event, err := events.Decode(msg.Values)
	if err != nil {
		metrics.WorkerEvents.WithLabelValues("invalid", "error").Inc()
		p.logger.Warn().Err(err).Str("message_id", msg.ID).Msg("dropping undecodable message")
		return nil
	}

	if err := p.apply(ctx, event); err != nil {
		metrics.WorkerEvents.WithLabelValues(event.Type, "error").Inc()
		return fmt.Errorf("%s: %w", event.Type, err)
	}
	metrics.WorkerEvents.WithLabelValues(event.Type, "ok").Inc()
	return nil
}

func (p *Processor) apply(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.TypePlanSubmitted:
		return p.counters.AddPlan(ctx, event.Count)
	case events.TypeReportSubmitted:
		return p.counters.AddReport(ctx)
	case events.TypeHospitalAdded:
		return p.counters.AddHospital(ctx)
	case events.TypeHospitalVisited:
		// visits are not part of the dashboard totals
		return nil
	case events.TypeReconcileCounters:
		return p.Reconcile(ctx)
	case events.TypeRollupSnapshot:
		return p.snapshot(ctx)
	default:
		p.logger.Warn().Str("type", event.Type).Msg("unknown event type")
		return nil
	}
}

// Reconcile overwrites the counters hash with totals scanned from the
// primary store.
func (p *Processor) Reconcile(ctx context.Context) error {
	stats, err := p.scanner.DashboardStats(ctx)
	if err != nil {
		return err
	}
	if err := p.counters.Replace(ctx, stats); err != nil {
		return err
	}
	p.logger.Info().
		Int("weekly_plans", stats.WeeklyPlans).
		Int("daily_reports", stats.DailyReports).
		Int("hospitals", stats.Hospitals).
		Int("total_visits", stats.TotalVisits).
		Msg("counters reconciled")
	return nil
}

func (p *Processor) snapshot(ctx context.Context) error {
	if p.snapshots == nil {
		p.logger.Debug().Msg("object store disabled, skipping rollup snapshot")
		return nil
	}

	rollup, err := p.rollups.PerformanceRollup(ctx)
	if err != nil {
		return err
	}
	key, err := p.snapshots.PutSnapshot(ctx, p.now(), rollup)
	if err != nil {
		return err
	}
	p.logger.Info().Str("key", key).Int("representatives", len(rollup.Representatives)).Msg("rollup snapshot stored")
	return nil
}
