package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medreps/internal/models"
)

func visits(n int) []models.ReportVisit {
	out := make([]models.ReportVisit, n)
	for i := range out {
		out[i] = models.ReportVisit{DoctorName: fmt.Sprintf("Dr. %d", i), Feedback: "ok"}
	}
	return out
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)

	_, err := f.services.Plans.Save(f.as(t, "REP_1"), PlanInput{WeekStartDate: "2026-01-03", Plan: threeDoctorSchedule()})
	require.NoError(t, err)
	_, err = f.services.Plans.Save(f.as(t, "REP_2"), PlanInput{WeekStartDate: "2026-01-03", Plan: threeDoctorSchedule()})
	require.NoError(t, err)
	_, err = f.services.Reports.Save(f.as(t, "REP_1"), ReportInput{ReportDate: "2026-01-04", Visits: visits(2)})
	require.NoError(t, err)
	addHospital(t, f, "REP_1")

	stats, err := f.services.Aggregation.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DashboardStats{WeeklyPlans: 2, DailyReports: 1, Hospitals: 1, TotalVisits: 6}, stats)
}

func TestRollupUnionAndOrder(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	reports := []models.DailyReport{
		{Representative: "REP_2", RepName: "Ahmed Osman", Visits: visits(3)},
		{Representative: "REP_1", RepName: "Ahmed Nashaat", Visits: visits(2)},
		{Representative: "REP_2", RepName: "renamed later", Visits: visits(1)},
	}
	plans := []models.WeeklyPlan{
		{Representative: "REP_3", RepName: "Azza Moatamed", Plan: threeDoctorSchedule()},
		{Representative: "REP_1", RepName: "Ahmed Nashaat", Plan: threeDoctorSchedule(), TotalDoctors: 99},
	}

	rollup := Rollup(reports, plans, at)
	assert.Equal(t, 3, rollup.TotalReports)
	assert.Equal(t, 2, rollup.TotalPlans)
	assert.Equal(t, at, rollup.LastUpdated)
	require.Len(t, rollup.Representatives, 3)

	rep2, rep1, rep3 := rollup.Representatives[0], rollup.Representatives[1], rollup.Representatives[2]
	assert.Equal(t, models.RepPerformance{Code: "REP_2", Name: "Ahmed Osman", TotalVisits: 4, ReportsCount: 2, Tier: models.TierLow}, rep2)
	assert.Equal(t, models.RepPerformance{Code: "REP_1", Name: "Ahmed Nashaat", TotalVisits: 2, ReportsCount: 1, PlansCount: 1, PlannedDoctors: 3, Tier: models.TierLow}, rep1)
	assert.Equal(t, models.RepPerformance{Code: "REP_3", Name: "Azza Moatamed", PlansCount: 1, PlannedDoctors: 3, Tier: models.TierLow}, rep3)
}

func TestRollupTiers(t *testing.T) {
	rollup := Rollup([]models.DailyReport{
		{Representative: "A", Visits: visits(10)},
		{Representative: "B", Visits: visits(5)},
		{Representative: "C", Visits: visits(4)},
	}, nil, time.Now())

	require.Len(t, rollup.Representatives, 3)
	assert.Equal(t, models.TierExcellent, rollup.Representatives[0].Tier)
	assert.Equal(t, models.TierAverage, rollup.Representatives[1].Tier)
	assert.Equal(t, models.TierLow, rollup.Representatives[2].Tier)
}

func TestPerformanceRollupWindows(t *testing.T) {
	f := newFixture(t)
	agg := NewAggregationService(ScanStats{Plans: f.set.Plans, Reports: f.set.Reports, Hospitals: f.set.Hospitals}, f.set.Plans, f.set.Reports, 3, 2)

	for i := 0; i < 5; i++ {
		_, err := f.services.Reports.Save(f.as(t, "REP_1"), ReportInput{ReportDate: "2026-01-01", Visits: visits(1)})
		require.NoError(t, err)
		_, err = f.services.Plans.Save(f.as(t, "REP_1"), PlanInput{WeekStartDate: "2026-01-03", Plan: threeDoctorSchedule()})
		require.NoError(t, err)
	}
	// the newest report belongs to REP_6, so REP_6 is seen first
	_, err := f.services.Reports.Save(f.as(t, "REP_6"), ReportInput{ReportDate: "2026-01-02", Visits: visits(7)})
	require.NoError(t, err)

	rollup, err := agg.PerformanceRollup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, rollup.TotalReports)
	assert.Equal(t, 2, rollup.TotalPlans)
	require.Len(t, rollup.Representatives, 2)
	assert.Equal(t, "REP_6", rollup.Representatives[0].Code)
	assert.Equal(t, 7, rollup.Representatives[0].TotalVisits)
	assert.Equal(t, 2, rollup.Representatives[1].ReportsCount)
	assert.Equal(t, 2, rollup.Representatives[1].PlansCount)
	assert.Equal(t, 6, rollup.Representatives[1].PlannedDoctors)
}

func TestAnalyzeEmpty(t *testing.T) {
	summary := Analyze(models.PerformanceRollup{}, time.Now())
	assert.Equal(t, "No data available for analysis yet.", summary.Text)
	assert.Nil(t, summary.TopPerformer)
	assert.Nil(t, summary.NeedsAttention)
	assert.Zero(t, summary.ActiveReps)
}

func TestAnalyzePicksExtremesFirstOnTies(t *testing.T) {
	rollup := models.PerformanceRollup{
		TotalReports: 4,
		Representatives: []models.RepPerformance{
			{Code: "A", Name: "Alpha", TotalVisits: 3},
			{Code: "B", Name: "Bravo", TotalVisits: 8, PlannedDoctors: 12},
			{Code: "C", Name: "Charlie", TotalVisits: 8},
			{Code: "D", Name: "Delta", TotalVisits: 3},
		},
	}

	summary := Analyze(rollup, time.Now())
	require.NotNil(t, summary.TopPerformer)
	require.NotNil(t, summary.NeedsAttention)
	assert.Equal(t, "B", summary.TopPerformer.Code)
	assert.Equal(t, "A", summary.NeedsAttention.Code)
	assert.Equal(t, 4, summary.ActiveReps)
	assert.Contains(t, summary.Text, "Top Performer: Bravo")
	assert.Contains(t, summary.Text, "Planned Doctors: 12")
	assert.Contains(t, summary.Text, "Needs Attention: Alpha")
	assert.Contains(t, summary.Text, "Total Reports: 4")
	assert.Contains(t, summary.Text, "Set weekly targets (minimum 10 doctors/week)")
}

type staticCounters struct {
	stats models.DashboardStats
}

func (s staticCounters) ReadStats(context.Context) (models.DashboardStats, error) {
	return s.stats, nil
}

func TestCounterStatsSource(t *testing.T) {
	f := newFixture(t)
	want := models.DashboardStats{WeeklyPlans: 7, DailyReports: 3, Hospitals: 2, TotalVisits: 40}
	agg := NewAggregationService(CounterStats{Counters: staticCounters{stats: want}}, f.set.Plans, f.set.Reports, 0, 0)

	got, err := agg.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
