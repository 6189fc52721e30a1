// Package contacts provides the per-user address-book repository.
package contacts

import (
	"context"

	"github.com/yshchur/contacts-api/internal/models"
)

// Filter narrows List results. Name, Surname, and Email are matched with OR
// when any of them is set; Skip/Limit page through the result.
type Filter struct {
	Name    string
	Surname string
	Email   string
	Skip    int
	Limit   int
}

type Repository interface {
	List(ctx context.Context, userID string, f Filter) ([]*models.Contact, error)
	Get(ctx context.Context, userID string, id int64) (*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	Delete(ctx context.Context, userID string, id int64) error
	UpcomingBirthdays(ctx context.Context, userID string, days int) ([]*models.Contact, error)
}
