package models

import "time"

type DashboardStats struct {
	WeeklyPlans  int `json:"weeklyPlans"`
	DailyReports int `json:"dailyReports"`
	Hospitals    int `json:"hospitals"`
	TotalVisits  int `json:"totalVisits"`
}

type Tier string

const (
	TierExcellent Tier = "Excellent"
	TierAverage   Tier = "Average"
	TierLow       Tier = "Low"
)

// TierFor applies the dashboard banding to a representative's actual visit count.
func TierFor(totalVisits int) Tier {
	switch {
	case totalVisits >= 10:
		return TierExcellent
	case totalVisits >= 5:
		return TierAverage
	default:
		return TierLow
	}
}

type RepPerformance struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	TotalVisits    int    `json:"totalVisits"`
	ReportsCount   int    `json:"reportsCount"`
	PlansCount     int    `json:"plansCount"`
	PlannedDoctors int    `json:"plannedDoctors"`
	Tier           Tier   `json:"tier"`
}

type PerformanceRollup struct {
	TotalReports    int              `json:"totalReports"`
	TotalPlans      int              `json:"totalPlans"`
	Representatives []RepPerformance `json:"representatives"`
	LastUpdated     time.Time        `json:"lastUpdated"`
}

type AnalysisSummary struct {
	Text           string          `json:"text"`
	TopPerformer   *RepPerformance `json:"topPerformer,omitempty"`
	NeedsAttention *RepPerformance `json:"needsAttention,omitempty"`
	TotalReports   int             `json:"totalReports"`
	ActiveReps     int             `json:"activeReps"`
	GeneratedAt    time.Time       `json:"generatedAt"`
}
