package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medreps/internal/models"
)

const hospitalColumns = `id, seq, name, location, contact_person, phone, representative, rep_name, products, visits, created_at`

type HospitalRepository struct {
	pool *pgxpool.Pool
}

func NewHospitalRepository(pool *pgxpool.Pool) *HospitalRepository {
	return &HospitalRepository{pool: pool}
}

func (r *HospitalRepository) Create(ctx context.Context, hospital models.Hospital) error {
	const query = `
		INSERT INTO hospitals (
			id, name, location, contact_person, phone, representative, rep_name, products, visits, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`
	visits := hospital.Visits
	if visits == nil {
		visits = []models.HospitalVisit{}
	}
	_, err := r.pool.Exec(ctx, query,
		hospital.ID,
		hospital.Name,
		hospital.Location,
		hospital.ContactPerson,
		hospital.Phone,
		hospital.Representative,
		hospital.RepName,
		hospital.Products,
		visits,
		hospital.CreatedAt,
	)
	return err
}

func (r *HospitalRepository) GetByID(ctx context.Context, id string) (models.Hospital, error) {
	query := `SELECT ` + hospitalColumns + ` FROM hospitals WHERE id = $1`
	hospitals, err := r.query(ctx, query, id)
	if err != nil {
		return models.Hospital{}, err
	}
	if len(hospitals) == 0 {
		return models.Hospital{}, ErrHospitalNotFound
	}
	return hospitals[0], nil
}

func (r *HospitalRepository) List(ctx context.Context) ([]models.Hospital, error) {
	query := `SELECT ` + hospitalColumns + ` FROM hospitals ORDER BY seq ASC`
	return r.query(ctx, query)
}

func (r *HospitalRepository) ListByRepresentative(ctx context.Context, code string) ([]models.Hospital, error) {
	query := `SELECT ` + hospitalColumns + ` FROM hospitals WHERE representative = $1 ORDER BY seq ASC`
	return r.query(ctx, query, code)
}

// AppendVisit concatenates onto the stored array in a single statement.
func (r *HospitalRepository) AppendVisit(ctx context.Context, id string, visit models.HospitalVisit) error {
	const query = `
		UPDATE hospitals
		SET visits = visits || jsonb_build_array($2::jsonb)
		WHERE id = $1
	`
	payload, err := json.Marshal(visit)
	if err != nil {
		return fmt.Errorf("encode visit: %w", err)
	}
	cmd, err := r.pool.Exec(ctx, query, id, string(payload))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrHospitalNotFound
	}
	return nil
}

func (r *HospitalRepository) SetProductStatus(ctx context.Context, id string, product string, status models.ProductStatus) error {
	const query = `
		UPDATE hospitals
		SET products = jsonb_set(products, ARRAY[$2::text], to_jsonb($3::text), true)
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, product, string(status))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrHospitalNotFound
	}
	return nil
}

func (r *HospitalRepository) query(ctx context.Context, query string, args ...any) ([]models.Hospital, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	hospitals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Hospital, error) {
		var hospital models.Hospital
		err := row.Scan(
			&hospital.ID,
			&hospital.Seq,
			&hospital.Name,
			&hospital.Location,
			&hospital.ContactPerson,
			&hospital.Phone,
			&hospital.Representative,
			&hospital.RepName,
			&hospital.Products,
			&hospital.Visits,
			&hospital.CreatedAt,
		)
		return hospital, err
	})
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return hospitals, nil
}
