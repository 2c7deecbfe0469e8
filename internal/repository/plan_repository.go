package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medreps/internal/models"
)

const planColumns = `id, seq, representative, rep_name, week_start_date, plan, total_doctors, submitted_at`

type PlanRepository struct {
	pool *pgxpool.Pool
}

func NewPlanRepository(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{pool: pool}
}

func (r *PlanRepository) Create(ctx context.Context, plan models.WeeklyPlan) error {
	const query = `
		INSERT INTO weekly_plans (id, representative, rep_name, week_start_date, plan, total_doctors, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		plan.ID,
		plan.Representative,
		plan.RepName,
		plan.WeekStartDate,
		plan.Plan,
		plan.TotalDoctors,
		plan.SubmittedAt,
	)
	return err
}

func (r *PlanRepository) List(ctx context.Context) ([]models.WeeklyPlan, error) {
	query := `SELECT ` + planColumns + ` FROM weekly_plans ORDER BY seq ASC`
	return r.query(ctx, query)
}

func (r *PlanRepository) ListByRepresentative(ctx context.Context, code string) ([]models.WeeklyPlan, error) {
	query := `SELECT ` + planColumns + ` FROM weekly_plans WHERE representative = $1 ORDER BY seq ASC`
	return r.query(ctx, query, code)
}

func (r *PlanRepository) Recent(ctx context.Context, limit int) ([]models.WeeklyPlan, error) {
	query := `SELECT ` + planColumns + ` FROM weekly_plans ORDER BY seq DESC LIMIT $1`
	return r.query(ctx, query, limit)
}

func (r *PlanRepository) query(ctx context.Context, query string, args ...any) ([]models.WeeklyPlan, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.WeeklyPlan, error) {
		var plan models.WeeklyPlan
		err := row.Scan(
			&plan.ID,
			&plan.Seq,
			&plan.Representative,
			&plan.RepName,
			&plan.WeekStartDate,
			&plan.Plan,
			&plan.TotalDoctors,
			&plan.SubmittedAt,
		)
		return plan, err
	})
}
