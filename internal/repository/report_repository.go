package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medreps/internal/models"
)

const reportColumns = `id, seq, representative, rep_name, report_date, visits, submitted_at`

type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

func (r *ReportRepository) Create(ctx context.Context, report models.DailyReport) error {
	const query = `
		INSERT INTO daily_reports (id, representative, rep_name, report_date, visits, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	visits := report.Visits
	if visits == nil {
		visits = []models.ReportVisit{}
	}
	_, err := r.pool.Exec(ctx, query,
		report.ID,
		report.Representative,
		report.RepName,
		report.ReportDate,
		visits,
		report.SubmittedAt,
	)
	return err
}

func (r *ReportRepository) List(ctx context.Context) ([]models.DailyReport, error) {
	query := `SELECT ` + reportColumns + ` FROM daily_reports ORDER BY seq ASC`
	return r.query(ctx, query)
}

func (r *ReportRepository) ListByRepresentative(ctx context.Context, code string) ([]models.DailyReport, error) {
	query := `SELECT ` + reportColumns + ` FROM daily_reports WHERE representative = $1 ORDER BY seq ASC`
	return r.query(ctx, query, code)
}

func (r *ReportRepository) Recent(ctx context.Context, limit int) ([]models.DailyReport, error) {
	query := `SELECT ` + reportColumns + ` FROM daily_reports ORDER BY seq DESC LIMIT $1`
	return r.query(ctx, query, limit)
}

func (r *ReportRepository) query(ctx context.Context, query string, args ...any) ([]models.DailyReport, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.DailyReport, error) {
		var report models.DailyReport
		err := row.Scan(
			&report.ID,
			&report.Seq,
			&report.Representative,
			&report.RepName,
			&report.ReportDate,
			&report.Visits,
			&report.SubmittedAt,
		)
		return report, err
	})
}
