package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medreps/internal/models"
	"medreps/internal/repository"
)

const (
	DefaultReportsWindow = 50
	DefaultPlansWindow   = 20

	noAnalysisData = "No data available for analysis yet."
)

// StatsSource produces the dashboard totals.
type StatsSource interface {
	DashboardStats(ctx context.Context) (models.DashboardStats, error)
}

// ScanStats computes the totals from a full repository scan on every call.
type ScanStats struct {
	Plans     repository.Plans
	Reports   repository.Reports
	Hospitals repository.Hospitals
}

func (s ScanStats) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	plans, err := s.Plans.List(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("scan plans: %w", err)
	}
	reports, err := s.Reports.List(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("scan reports: %w", err)
	}
	hospitals, err := s.Hospitals.List(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("scan hospitals: %w", err)
	}

	stats := models.DashboardStats{
		WeeklyPlans:  len(plans),
		DailyReports: len(reports),
		Hospitals:    len(hospitals),
	}
	for _, plan := range plans {
		stats.TotalVisits += plan.TotalDoctors
	}
	return stats, nil
}

// CounterReader exposes precomputed totals, e.g. a Redis hash kept by the worker.
type CounterReader interface {
	ReadStats(ctx context.Context) (models.DashboardStats, error)
}

type CounterStats struct {
	Counters CounterReader
}

func (s CounterStats) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	return s.Counters.ReadStats(ctx)
}

type AggregationService struct {
	stats         StatsSource
	plans         repository.Plans
	reports       repository.Reports
	reportsWindow int
	plansWindow   int
	now           func() time.Time
}

func NewAggregationService(stats StatsSource, plans repository.Plans, reports repository.Reports, reportsWindow, plansWindow int) *AggregationService {
	if reportsWindow <= 0 {
		reportsWindow = DefaultReportsWindow
	}
	if plansWindow <= 0 {
		plansWindow = DefaultPlansWindow
	}
	return &AggregationService{
		stats:         stats,
		plans:         plans,
		reports:       reports,
		reportsWindow: reportsWindow,
		plansWindow:   plansWindow,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *AggregationService) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	return s.stats.DashboardStats(ctx)
}

// PerformanceRollup merges the most recent reports and plans per representative.
// Representatives appear in first-seen order, reports scanned before plans.
func (s *AggregationService) PerformanceRollup(ctx context.Context) (models.PerformanceRollup, error) {
	reports, err := s.reports.Recent(ctx, s.reportsWindow)
	if err != nil {
		return models.PerformanceRollup{}, fmt.Errorf("recent reports: %w", err)
	}
	plans, err := s.plans.Recent(ctx, s.plansWindow)
	if err != nil {
		return models.PerformanceRollup{}, fmt.Errorf("recent plans: %w", err)
	}
	return Rollup(reports, plans, s.now()), nil
}

// Rollup is the pure merge behind PerformanceRollup.
func Rollup(reports []models.DailyReport, plans []models.WeeklyPlan, at time.Time) models.PerformanceRollup {
	index := make(map[string]int)
	reps := make([]models.RepPerformance, 0)

	entry := func(code, name string) *models.RepPerformance {
		i, ok := index[code]
		if !ok {
			i = len(reps)
			index[code] = i
			reps = append(reps, models.RepPerformance{Code: code, Name: name})
		}
		return &reps[i]
	}

	for _, report := range reports {
		rep := entry(report.Representative, report.RepName)
		rep.TotalVisits += len(report.Visits)
		rep.ReportsCount++
	}
	for _, plan := range plans {
		rep := entry(plan.Representative, plan.RepName)
		rep.PlansCount++
		for _, day := range plan.Plan.Days() {
			rep.PlannedDoctors += len(day)
		}
	}

	for i := range reps {
		reps[i].Tier = models.TierFor(reps[i].TotalVisits)
	}

	return models.PerformanceRollup{
		TotalReports:    len(reports),
		TotalPlans:      len(plans),
		Representatives: reps,
		LastUpdated:     at,
	}
}

func (s *AggregationService) Analysis(ctx context.Context) (models.AnalysisSummary, error) {
	rollup, err := s.PerformanceRollup(ctx)
	if err != nil {
		return models.AnalysisSummary{}, err
	}
	return Analyze(rollup, s.now()), nil
}

// Analyze renders the fixed-template summary. Ties resolve to the earliest representative.
func Analyze(rollup models.PerformanceRollup, at time.Time) models.AnalysisSummary {
	summary := models.AnalysisSummary{
		TotalReports: rollup.TotalReports,
		ActiveReps:   len(rollup.Representatives),
		GeneratedAt:  at,
	}
	if len(rollup.Representatives) == 0 {
		summary.Text = noAnalysisData
		return summary
	}

	top, low := rollup.Representatives[0], rollup.Representatives[0]
	for _, rep := range rollup.Representatives[1:] {
		if rep.TotalVisits > top.TotalVisits {
			top = rep
		}
		if rep.TotalVisits < low.TotalVisits {
			low = rep
		}
	}
	summary.TopPerformer = &top
	summary.NeedsAttention = &low

	var b strings.Builder
	b.WriteString("Performance Analysis\n\n")
	fmt.Fprintf(&b, "Top Performer: %s\n", top.Name)
	fmt.Fprintf(&b, "  - Actual Visits: %d\n", top.TotalVisits)
	fmt.Fprintf(&b, "  - Planned Doctors: %d\n\n", top.PlannedDoctors)
	fmt.Fprintf(&b, "Needs Attention: %s\n", low.Name)
	fmt.Fprintf(&b, "  - Actual Visits: %d\n", low.TotalVisits)
	fmt.Fprintf(&b, "  - Planned Doctors: %d\n\n", low.PlannedDoctors)
	b.WriteString("Overall Stats:\n")
	fmt.Fprintf(&b, "  - Total Reports: %d\n", rollup.TotalReports)
	fmt.Fprintf(&b, "  - Active Reps: %d\n\n", len(rollup.Representatives))
	b.WriteString("Action Items:\n")
	b.WriteString("1. Review coverage areas\n")
	b.WriteString("2. Provide training if needed\n")
	b.WriteString("3. Set weekly targets (minimum 10 doctors/week)")

	summary.Text = b.String()
	return summary
}
