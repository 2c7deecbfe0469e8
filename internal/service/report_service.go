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

const DefaultRecentReports = 10

type ReportService struct {
	dir     *directory.Directory
	reports repository.Reports
	events  events.Publisher
	recent  int
	log     zerolog.Logger
}

func NewReportService(dir *directory.Directory, reports repository.Reports, publisher events.Publisher, recent int, log zerolog.Logger) *ReportService {
	if recent <= 0 {
		recent = DefaultRecentReports
	}
	return &ReportService{dir: dir, reports: reports, events: publisher, recent: recent, log: log}
}

type ReportInput struct {
	Representative string
	ReportDate     string
	Visits         []models.ReportVisit
}

func (s *ReportService) Save(ctx context.Context, input ReportInput) (string, error) {
	code, name, err := owner(ctx, s.dir, input.Representative)
	if err != nil {
		return "", err
	}

	visits := input.Visits
	if visits == nil {
		visits = []models.ReportVisit{}
	}
	report := models.DailyReport{
		ID:             ids.New(),
		Representative: code,
		RepName:        name,
		ReportDate:     input.ReportDate,
		Visits:         visits,
		SubmittedAt:    time.Now().UTC(),
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return "", fmt.Errorf("save daily report: %w", err)
	}
	metrics.RecordsCreated.WithLabelValues("daily_report").Inc()

	publish(ctx, s.events, s.log, events.Event{
		Type:           events.TypeReportSubmitted,
		ID:             report.ID,
		Representative: code,
		Count:          len(report.Visits),
	})
	return report.ID, nil
}

// List returns every report of one representative, or for an unfiltered
// manager call the most recently inserted reports, newest first.
func (s *ReportService) List(ctx context.Context, representative string) ([]models.DailyReport, error) {
	code, all, err := readScope(ctx, representative)
	if err != nil {
		return nil, err
	}
	if all {
		return s.reports.Recent(ctx, s.recent)
	}
	return s.reports.ListByRepresentative(ctx, code)
}
