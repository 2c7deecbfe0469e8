package service

import (
	"github.com/rs/zerolog"

	"medreps/internal/config"
	"medreps/internal/directory"
	"medreps/internal/events"
	"medreps/internal/repository"
)

type Services struct {
	Auth        *AuthService
	Plans       *PlanService
	Reports     *ReportService
	Hospitals   *HospitalService
	Aggregation *AggregationService
	Scan        ScanStats
}

// New wires every service over one repository set. counters is only used
// in counters aggregation mode and may be nil otherwise.
func New(cfg *config.AppConfig, dir *directory.Directory, set repository.Set, publisher events.Publisher, counters CounterReader, log zerolog.Logger) Services {
	if publisher == nil {
		publisher = events.Discard{}
	}

	scan := ScanStats{Plans: set.Plans, Reports: set.Reports, Hospitals: set.Hospitals}
	var stats StatsSource = scan
	if cfg.Aggregation.Mode == config.AggregationCounters {
		if counters != nil {
			stats = CounterStats{Counters: counters}
		} else {
			log.Warn().Msg("counters aggregation requested without redis, falling back to scan")
		}
	}

	return Services{
		Auth:        NewAuthService(dir, set.Sessions, cfg.Security, log.With().Str("component", "auth").Logger()),
		Plans:       NewPlanService(dir, set.Plans, publisher, log.With().Str("component", "plans").Logger()),
		Reports:     NewReportService(dir, set.Reports, publisher, cfg.Aggregation.RecentReports, log.With().Str("component", "reports").Logger()),
		Hospitals:   NewHospitalService(dir, set.Hospitals, publisher, log.With().Str("component", "hospitals").Logger()),
		Aggregation: NewAggregationService(stats, set.Plans, set.Reports, cfg.Aggregation.ReportsWindow, cfg.Aggregation.PlansWindow),
		Scan:        scan,
	}
}
