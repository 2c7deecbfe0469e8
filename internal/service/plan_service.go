package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"medreps/internal/directory"
	"medreps/internal/events"
	"medreps/internal/ids"
	"medreps/internal/metrics"
	"medreps/internal/models"
	"medreps/internal/repository"
)

type PlanService struct {
	dir    *directory.Directory
	plans  repository.Plans
	events events.Publisher
	log    zerolog.Logger
}

func NewPlanService(dir *directory.Directory, plans repository.Plans, publisher events.Publisher, log zerolog.Logger) *PlanService {
	return &PlanService{dir: dir, plans: plans, events: publisher, log: log}
}

type PlanInput struct {
	Representative string
	WeekStartDate  string
	Plan           models.WeekSchedule
}

// Save stores a new weekly plan and returns its id. Entries are stored as given.
func (s *PlanService) Save(ctx context.Context, input PlanInput) (string, error) {
	code, name, err := owner(ctx, s.dir, input.Representative)
	if err != nil {
		return "", err
	}

	schedule := input.Plan.Normalize()
	plan := models.WeeklyPlan{
		ID:             ids.New(),
		Representative: code,
		RepName:        name,
		WeekStartDate:  input.WeekStartDate,
		Plan:           schedule,
		TotalDoctors:   schedule.TotalDoctors(),
		SubmittedAt:    time.Now().UTC(),
	}

	if err := s.plans.Create(ctx, plan); err != nil {
		return "", fmt.Errorf("save weekly plan: %w", err)
	}
	metrics.RecordsCreated.WithLabelValues("weekly_plan").Inc()

	publish(ctx, s.events, s.log, events.Event{
		Type:           events.TypePlanSubmitted,
		ID:             plan.ID,
		Representative: code,
		Count:          plan.TotalDoctors,
	})
	return plan.ID, nil
}

func (s *PlanService) List(ctx context.Context, representative string) ([]models.WeeklyPlan, error) {
	code, all, err := readScope(ctx, representative)
	if err != nil {
		return nil, err
	}
	if all {
		return s.plans.List(ctx)
	}
	return s.plans.ListByRepresentative(ctx, code)
}

func publish(ctx context.Context, publisher events.Publisher, log zerolog.Logger, event events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("type", event.Type).Str("id", event.ID).Msg("publish activity failed")
	}
}
