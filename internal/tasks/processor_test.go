package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medreps/internal/events"
	"medreps/internal/models"
)

type fakeCounters struct {
	stats    models.DashboardStats
	replaced bool
}

func (f *fakeCounters) AddPlan(_ context.Context, doctors int) error {
	f.stats.WeeklyPlans++
	f.stats.TotalVisits += doctors
	return nil
}

func (f *fakeCounters) AddReport(context.Context) error {
	f.stats.DailyReports++
	return nil
}

func (f *fakeCounters) AddHospital(context.Context) error {
	f.stats.Hospitals++
	return nil
}

func (f *fakeCounters) Replace(_ context.Context, stats models.DashboardStats) error {
	f.stats = stats
	f.replaced = true
	return nil
}

type fakeScanner struct {
	stats models.DashboardStats
	err   error
}

func (f fakeScanner) DashboardStats(context.Context) (models.DashboardStats, error) {
	return f.stats, f.err
}

type fakeRollups struct{}

func (fakeRollups) PerformanceRollup(context.Context) (models.PerformanceRollup, error) {
	return models.PerformanceRollup{TotalReports: 1, Representatives: []models.RepPerformance{{Code: "REP_1"}}}, nil
}

type fakeSnapshots struct {
	keys  []string
	items []any
}

func (f *fakeSnapshots) PutSnapshot(_ context.Context, at time.Time, v any) (string, error) {
	key := "rollups/" + at.Format("2006/01/02") + "/x.json"
	f.keys = append(f.keys, key)
	f.items = append(f.items, v)
	return key, nil
}

func message(event events.Event) redis.XMessage {
	return redis.XMessage{ID: "1-0", Values: event.Values()}
}

func TestProcessorAppliesActivity(t *testing.T) {
	counters := &fakeCounters{}
	p := NewProcessor(counters, fakeScanner{}, fakeRollups{}, nil, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, p.Handle(ctx, message(events.Event{Type: events.TypePlanSubmitted, ID: "p1", Count: 3})))
	require.NoError(t, p.Handle(ctx, message(events.Event{Type: events.TypePlanSubmitted, ID: "p2", Count: 2})))
	require.NoError(t, p.Handle(ctx, message(events.Event{Type: events.TypeReportSubmitted, ID: "r1", Count: 4})))
	require.NoError(t, p.Handle(ctx, message(events.Event{Type: events.TypeHospitalAdded, ID: "h1"})))
	require.NoError(t, p.Handle(ctx, message(events.Event{Type: events.TypeHospitalVisited, ID: "h1", Count: 1})))

	assert.Equal(t, models.DashboardStats{WeeklyPlans: 2, DailyReports: 1, Hospitals: 1, TotalVisits: 5}, counters.stats)
}

func TestProcessorReconcile(t *testing.T) {
	counters := &fakeCounters{stats: models.DashboardStats{WeeklyPlans: 100}}
	want := models.DashboardStats{WeeklyPlans: 2, DailyReports: 4, Hospitals: 1, TotalVisits: 9}
	p := NewProcessor(counters, fakeScanner{stats: want}, fakeRollups{}, nil, zerolog.Nop())

	require.NoError(t, p.Handle(context.Background(), message(events.Event{Type: events.TypeReconcileCounters})))
	assert.True(t, counters.replaced)
	assert.Equal(t, want, counters.stats)
}

func TestProcessorReconcileFailureIsReturned(t *testing.T) {
	counters := &fakeCounters{}
	p := NewProcessor(counters, fakeScanner{err: errors.New("db down")}, fakeRollups{}, nil, zerolog.Nop())

	err := p.Handle(context.Background(), message(events.Event{Type: events.TypeReconcileCounters}))
	assert.Error(t, err)
	assert.False(t, counters.replaced)
}

func TestProcessorSnapshot(t *testing.T) {
	snapshots := &fakeSnapshots{}
	p := NewProcessor(&fakeCounters{}, fakeScanner{}, fakeRollups{}, snapshots, zerolog.Nop())
	p.now = func() time.Time { return time.Date(2026, 10, 14, 23, 30, 0, 0, time.UTC) }

	require.NoError(t, p.Handle(context.Background(), message(events.Event{Type: events.TypeRollupSnapshot})))
	require.Len(t, snapshots.keys, 1)
	assert.Equal(t, "rollups/2026/10/14/x.json", snapshots.keys[0])
	rollup, ok := snapshots.items[0].(models.PerformanceRollup)
	require.True(t, ok)
	assert.Equal(t, 1, rollup.TotalReports)
}

func TestProcessorSkipsSnapshotWithoutStore(t *testing.T) {
	p := NewProcessor(&fakeCounters{}, fakeScanner{}, fakeRollups{}, nil, zerolog.Nop())
	assert.NoError(t, p.Handle(context.Background(), message(events.Event{Type: events.TypeRollupSnapshot})))
}

func TestProcessorDropsUndecodable(t *testing.T) {
	counters := &fakeCounters{}
	p := NewProcessor(counters, fakeScanner{}, fakeRollups{}, nil, zerolog.Nop())

	err := p.Handle(context.Background(), redis.XMessage{ID: "1-0", Values: map[string]interface{}{"id": "x"}})
	assert.NoError(t, err)
	assert.Zero(t, counters.stats)
}

func TestProcessorReconcileSeedsEmptyCounters(t *testing.T) {
	counters := &fakeCounters{}
	want := models.DashboardStats{WeeklyPlans: 3, DailyReports: 2, Hospitals: 5, TotalVisits: 12}
	p := NewProcessor(counters, fakeScanner{stats: want}, fakeRollups{}, nil, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, p.Reconcile(ctx))
	assert.True(t, counters.replaced)
	assert.Equal(t, want, counters.stats)

	// increments after the seed build on the scanned totals
	require.NoError(t, p.Handle(ctx, message(events.Event{Type: events.TypePlanSubmitted, ID: "p4", Count: 2})))
	assert.Equal(t, 4, counters.stats.WeeklyPlans)
	assert.Equal(t, 14, counters.stats.TotalVisits)
}
