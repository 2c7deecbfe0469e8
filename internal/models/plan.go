package models

import "time"

// Weekday slots of a weekly plan, in schedule order.
const (
	Saturday  = "saturday"
	Sunday    = "sunday"
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
)

var PlanDays = []string{Saturday, Sunday, Monday, Tuesday, Wednesday}

type VisitIntent struct {
	DoctorName string   `json:"doctorName" bson:"doctorName"`
	Specialty  string   `json:"specialty" bson:"specialty"`
	Area       string   `json:"area" bson:"area"`
	Products   []string `json:"products" bson:"products"`
}

// WeekSchedule holds exactly five day slots.
type WeekSchedule struct {
	Saturday  []VisitIntent `json:"saturday" bson:"saturday"`
	Sunday    []VisitIntent `json:"sunday" bson:"sunday"`
	Monday    []VisitIntent `json:"monday" bson:"monday"`
	Tuesday   []VisitIntent `json:"tuesday" bson:"tuesday"`
	Wednesday []VisitIntent `json:"wednesday" bson:"wednesday"`
}

// Days returns the slots in schedule order.
func (w WeekSchedule) Days() [][]VisitIntent {
	return [][]VisitIntent{w.Saturday, w.Sunday, w.Monday, w.Tuesday, w.Wednesday}
}

func (w WeekSchedule) TotalDoctors() int {
	total := 0
	for _, day := range w.Days() {
		total += len(day)
	}
	return total
}

// Normalize replaces nil slots with empty ones so stored documents always carry all five keys.
func (w WeekSchedule) Normalize() WeekSchedule {
	fix := func(v []VisitIntent) []VisitIntent {
		if v == nil {
			return []VisitIntent{}
		}
		for i := range v {
			if v[i].Products == nil {
				v[i].Products = []string{}
			}
		}
		return v
	}
	return WeekSchedule{
		Saturday:  fix(w.Saturday),
		Sunday:    fix(w.Sunday),
		Monday:    fix(w.Monday),
		Tuesday:   fix(w.Tuesday),
		Wednesday: fix(w.Wednesday),
	}
}

type WeeklyPlan struct {
	ID             string       `json:"id" bson:"_id"`
	Representative string       `json:"representative" bson:"representative"`
	RepName        string       `json:"repName" bson:"repName"`
	WeekStartDate  string       `json:"weekStartDate" bson:"weekStartDate"`
	Plan           WeekSchedule `json:"plan" bson:"plan"`
	TotalDoctors   int          `json:"totalDoctors" bson:"totalDoctors"`
	SubmittedAt    time.Time    `json:"submittedAt" bson:"submittedAt"`
	Seq            int64        `json:"-" bson:"seq"`
}
