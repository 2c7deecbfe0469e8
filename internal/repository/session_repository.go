package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medreps/internal/models"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, session models.Session) error {
	const query = `
		INSERT INTO user_sessions (id, user_code, user_name, role, login_time, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserCode,
		session.UserName,
		session.Role,
		session.LoginTime,
		session.IsActive,
	)
	return err
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (models.Session, error) {
	const query = `
		SELECT id, seq, user_code, user_name, role, login_time, is_active
		FROM user_sessions WHERE id = $1
	`
	return scanSession(r.pool.QueryRow(ctx, query, id))
}

func (r *SessionRepository) FirstActive(ctx context.Context, userCode string) (models.Session, error) {
	const query = `
		SELECT id, seq, user_code, user_name, role, login_time, is_active
		FROM user_sessions
		WHERE user_code = $1 AND is_active
		ORDER BY seq ASC
		LIMIT 1
	`
	return scanSession(r.pool.QueryRow(ctx, query, userCode))
}

func (r *SessionRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE user_sessions SET is_active = FALSE WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func scanSession(row pgx.Row) (models.Session, error) {
	var session models.Session
	if err := row.Scan(
		&session.ID,
		&session.Seq,
		&session.UserCode,
		&session.UserName,
		&session.Role,
		&session.LoginTime,
		&session.IsActive,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, err
	}
	return session, nil
}
