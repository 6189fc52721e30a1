package contacts

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/yshchur/contacts-api/internal/common"
	"github.com/yshchur/contacts-api/internal/models"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func contactRows(ids ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "surname", "email", "phone_number", "birthday", "description"})
	for _, id := range ids {
		rows.AddRow(id, "uid-1", "Ann", "Lee", "ann@x.com", "+380441234567", time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC), "")
	}
	return rows
}

func TestList_NoFilter(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`(?s)SELECT .+\s+FROM contacts\s+WHERE user_id = \$1\s+ORDER`).
		WithArgs("uid-1", 0, 10).
		WillReturnRows(contactRows(1, 2, 3))

	list, err := repo.List(context.Background(), "uid-1", Filter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_WithFilter(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`(?s)SELECT .+\s+FROM contacts\s+WHERE user_id = \$1 AND \(name = \$2 OR surname = \$3 OR email = \$4\)`).
		WithArgs("uid-1", "Ann", "", "", 5, 20).
		WillReturnRows(contactRows(7))

	list, err := repo.List(context.Background(), "uid-1", Filter{Name: "Ann", Skip: 5, Limit: 20})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, int64(7), list[0].ID)
}

func TestGet_ScopedToOwner(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`(?s)SELECT .+\s+FROM contacts\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs(int64(7), "uid-1").
		WillReturnRows(contactRows(7))

	contact, err := repo.Get(context.Background(), "uid-1", 7)
	require.NoError(t, err)
	require.Equal(t, "uid-1", contact.UserID)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`(?s)SELECT .+\s+FROM contacts`).
		WithArgs(int64(7), "other-user").
		WillReturnRows(contactRows())

	_, err := repo.Get(context.Background(), "other-user", 7)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	birthday := time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO contacts`).
		WithArgs("uid-1", "Ann", "Lee", "ann@x.com", "+380441234567", birthday, "friend").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	contact, err := repo.Create(context.Background(), &models.Contact{
		UserID:      "uid-1",
		Name:        "Ann",
		Surname:     "Lee",
		Email:       "ann@x.com",
		PhoneNumber: "+380441234567",
		Birthday:    birthday,
		Description: "friend",
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), contact.ID)
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE contacts`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), &models.Contact{ID: 7, UserID: "other-user"})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM contacts`).
		WithArgs(int64(7), "uid-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "uid-1", 7))
}

func TestUpcomingBirthdays(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`EXTRACT\(MONTH FROM birthday\)`).
		WillReturnRows(contactRows(1, 2))

	list, err := repo.UpcomingBirthdays(context.Background(), "uid-1", 7)
	require.NoError(t, err)
	require.Len(t, list, 2)
}
