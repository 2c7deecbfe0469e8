package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"medreps/internal/models"
)

const StatsKey = "medreps:stats"

const (
	fieldWeeklyPlans  = "weeklyPlans"
	fieldDailyReports = "dailyReports"
	fieldHospitals    = "hospitals"
	fieldTotalVisits  = "totalVisits"
)

// StatsCounters keeps the dashboard totals in a single Redis hash.
type StatsCounters struct {
	client *redis.Client
	key    string
}

func NewStatsCounters(client *redis.Client) *StatsCounters {
	return &StatsCounters{client: client, key: StatsKey}
}

func (c *StatsCounters) ReadStats(ctx context.Context) (models.DashboardStats, error) {
	values, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("read stats: %w", err)
	}

	get := func(field string) (int, error) {
		raw, ok := values[field]
		if !ok || raw == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("stats field %s: %w", field, err)
		}
		return n, nil
	}

	var stats models.DashboardStats
	for field, dst := range map[string]*int{
		fieldWeeklyPlans:  &stats.WeeklyPlans,
		fieldDailyReports: &stats.DailyReports,
		fieldHospitals:    &stats.Hospitals,
		fieldTotalVisits:  &stats.TotalVisits,
	} {
		n, err := get(field)
		if err != nil {
			return models.DashboardStats{}, err
		}
		*dst = n
	}
	return stats, nil
}

func (c *StatsCounters) AddPlan(ctx context.Context, doctors int) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, c.key, fieldWeeklyPlans, 1)
		pipe.HIncrBy(ctx, c.key, fieldTotalVisits, int64(doctors))
		return nil
	})
	return err
}

func (c *StatsCounters) AddReport(ctx context.Context) error {
	return c.client.HIncrBy(ctx, c.key, fieldDailyReports, 1).Err()
}

func (c *StatsCounters) AddHospital(ctx context.Context) error {
	return c.client.HIncrBy(ctx, c.key, fieldHospitals, 1).Err()
}

// Replace overwrites every counter, used after a full rescan.
func (c *StatsCounters) Replace(ctx context.Context, stats models.DashboardStats) error {
	return c.client.HSet(ctx, c.key,
		fieldWeeklyPlans, stats.WeeklyPlans,
		fieldDailyReports, stats.DailyReports,
		fieldHospitals, stats.Hospitals,
		fieldTotalVisits, stats.TotalVisits,
	).Err()
}
