package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yshchur/contacts-api/internal/common"
	"github.com/yshchur/contacts-api/internal/dbx"
	"github.com/yshchur/contacts-api/internal/models"
)

// uniqueViolation is the Postgres error code raised by the unique index on
// users.email.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new unconfirmed user. A duplicate email surfaces as
// common.ErrDuplicateEmail.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (email, password)
		VALUES ($1, $2)
		RETURNING id, confirmed, created_at
	`
	err := r.db.QueryRowContext(ctx, query, user.Email, user.Password).
		Scan(&user.ID, &user.Confirmed, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password, confirmed, COALESCE(avatar, ''), created_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, password, confirmed, COALESCE(avatar, ''), created_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) SetConfirmed(ctx context.Context, id string, confirmed bool) error {
	query := `UPDATE users SET confirmed = $2 WHERE id = $1`
	return r.exec(ctx, query, id, confirmed)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, hash string) error {
	query := `UPDATE users SET password = $2 WHERE id = $1`
	return r.exec(ctx, query, id, hash)
}

func (r *PostgresRepository) UpdateAvatar(ctx context.Context, id string, url string) error {
	query := `UPDATE users SET avatar = $2 WHERE id = $1`
	return r.exec(ctx, query, id, url)
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.Password, &user.Confirmed, &user.Avatar, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
