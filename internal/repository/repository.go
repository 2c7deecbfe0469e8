package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"medreps/internal/models"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrHospitalNotFound = errors.New("hospital not found")
)

// Sessions stores login records. Rows are appended on every login.
type Sessions interface {
	Create(ctx context.Context, session models.Session) error
	GetByID(ctx context.Context, id string) (models.Session, error)
	// FirstActive returns the earliest inserted active session for userCode.
	FirstActive(ctx context.Context, userCode string) (models.Session, error)
	Deactivate(ctx context.Context, id string) error
}

// Plans stores weekly plans. Lists are in insertion order unless noted.
type Plans interface {
	Create(ctx context.Context, plan models.WeeklyPlan) error
	List(ctx context.Context) ([]models.WeeklyPlan, error)
	ListByRepresentative(ctx context.Context, code string) ([]models.WeeklyPlan, error)
	// Recent returns at most limit plans, newest first.
	Recent(ctx context.Context, limit int) ([]models.WeeklyPlan, error)
}

type Reports interface {
	Create(ctx context.Context, report models.DailyReport) error
	List(ctx context.Context) ([]models.DailyReport, error)
	ListByRepresentative(ctx context.Context, code string) ([]models.DailyReport, error)
	// Recent returns at most limit reports, newest first.
	Recent(ctx context.Context, limit int) ([]models.DailyReport, error)
}

// Hospitals mutations touch a single field atomically; they never rewrite the whole document.
type Hospitals interface {
	Create(ctx context.Context, hospital models.Hospital) error
	GetByID(ctx context.Context, id string) (models.Hospital, error)
	List(ctx context.Context) ([]models.Hospital, error)
	ListByRepresentative(ctx context.Context, code string) ([]models.Hospital, error)
	AppendVisit(ctx context.Context, id string, visit models.HospitalVisit) error
	SetProductStatus(ctx context.Context, id string, product string, status models.ProductStatus) error
}

// Set bundles one storage backend's repositories.
type Set struct {
	Sessions  Sessions
	Plans     Plans
	Reports   Reports
	Hospitals Hospitals
}

// NewPostgresSet wires the Postgres implementations onto a single pool.
func NewPostgresSet(pool *pgxpool.Pool) Set {
	return Set{
		Sessions:  NewSessionRepository(pool),
		Plans:     NewPlanRepository(pool),
		Reports:   NewReportRepository(pool),
		Hospitals: NewHospitalRepository(pool),
	}
}
