package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"medreps/internal/config"
	"medreps/internal/events"
)

type Scheduler struct {
	cron   *cron.Cron
	events events.Publisher
	cfg    config.JobsConfig
	log    zerolog.Logger
}

func NewScheduler(publisher events.Publisher, cfg config.JobsConfig, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:   c,
		events: publisher,
		cfg:    cfg,
		log:    log,
	}
}

func (s *Scheduler) Start() error {
	if s.events == nil || !s.cfg.Enabled {
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.ReconcileSpec, s.enqueue(events.TypeReconcileCounters)); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.SnapshotSpec, s.enqueue(events.TypeRollupSnapshot)); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron and waits for running jobs until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) enqueue(kind string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.events.Publish(ctx, events.Event{Type: kind}); err != nil {
			s.log.Error().Err(err).Str("type", kind).Msg("enqueue job failed")
			return
		}
		s.log.Debug().Str("type", kind).Msg("job enqueued")
	}
}
