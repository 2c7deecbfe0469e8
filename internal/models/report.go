package models

import "time"

type ReportVisit struct {
	DoctorName string `json:"doctorName" bson:"doctorName"`
	Feedback   string `json:"feedback" bson:"feedback"`
}

type DailyReport struct {
	ID             string        `json:"id" bson:"_id"`
	Representative string        `json:"representative" bson:"representative"`
	RepName        string        `json:"repName" bson:"repName"`
	ReportDate     string        `json:"reportDate" bson:"reportDate"`
	Visits         []ReportVisit `json:"visits" bson:"visits"`
	SubmittedAt    time.Time     `json:"submittedAt" bson:"submittedAt"`
	Seq            int64         `json:"-" bson:"seq"`
}
