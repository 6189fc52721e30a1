package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yshchur/contacts-api/internal/common"
	"github.com/yshchur/contacts-api/internal/dbx"
	"github.com/yshchur/contacts-api/internal/models"
)

const contactColumns = `id, user_id, name, surname, email, phone_number, birthday, COALESCE(description, '')`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string, f Filter) ([]*models.Contact, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}

	var (
		query string
		args  []any
	)
	if f.Name != "" || f.Surname != "" || f.Email != "" {
		query = `
			SELECT ` + contactColumns + `
			FROM contacts
			WHERE user_id = $1 AND (name = $2 OR surname = $3 OR email = $4)
			ORDER BY id
			OFFSET $5 LIMIT $6
		`
		args = []any{userID, f.Name, f.Surname, f.Email, f.Skip, limit}
	} else {
		query = `
			SELECT ` + contactColumns + `
			FROM contacts
			WHERE user_id = $1
			ORDER BY id
			OFFSET $2 LIMIT $3
		`
		args = []any{userID, f.Skip, limit}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

func (r *PostgresRepository) Get(ctx context.Context, userID string, id int64) (*models.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE id = $1 AND user_id = $2
	`
	contact, err := scanContact(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, err
	}
	return contact, nil
}

func (r *PostgresRepository) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	query := `
		INSERT INTO contacts (user_id, name, surname, email, phone_number, birthday, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		contact.UserID, contact.Name, contact.Surname, contact.Email,
		contact.PhoneNumber, contact.Birthday, contact.Description,
	).Scan(&contact.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return contact, nil
}

func (r *PostgresRepository) Update(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	query := `
		UPDATE contacts
		SET name = $3, surname = $4, email = $5, phone_number = $6, birthday = $7, description = $8
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		contact.ID, contact.UserID, contact.Name, contact.Surname, contact.Email,
		contact.PhoneNumber, contact.Birthday, contact.Description,
	)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, common.ErrNotFound
	}
	return contact, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string, id int64) error {
	query := `DELETE FROM contacts WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// UpcomingBirthdays matches contacts whose birthday (month and day) falls in
// the window [today, today+days]. The window may straddle a month boundary,
// hence the two-branch condition.
func (r *PostgresRepository) UpcomingBirthdays(ctx context.Context, userID string, days int) ([]*models.Contact, error) {
	today := time.Now()
	end := today.AddDate(0, 0, days)

	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE user_id = $1 AND (
			(EXTRACT(MONTH FROM birthday) = $2 AND EXTRACT(DAY FROM birthday) BETWEEN $3 AND $4)
			OR
			(EXTRACT(MONTH FROM birthday) = $5 AND EXTRACT(DAY FROM birthday) <= $6)
		)
		ORDER BY EXTRACT(MONTH FROM birthday), EXTRACT(DAY FROM birthday)
	`
	firstBranchEnd := end.Day()
	secondBranchEnd := 0 // matches nothing when the window stays in one month
	if end.Month() != today.Month() {
		firstBranchEnd = 31
		secondBranchEnd = end.Day()
	}

	rows, err := r.db.QueryContext(ctx, query,
		userID, int(today.Month()), today.Day(), firstBranchEnd, int(end.Month()), secondBranchEnd)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

func scanContact(row *sql.Row) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Surname, &c.Email, &c.PhoneNumber, &c.Birthday, &c.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func scanContacts(rows *sql.Rows) ([]*models.Contact, error) {
	var out []*models.Contact
	for rows.Next() {
		c := &models.Contact{}
		err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Surname, &c.Email, &c.PhoneNumber, &c.Birthday, &c.Description)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
