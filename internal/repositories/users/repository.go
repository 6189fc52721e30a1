// Package users provides the credential store: a narrow repository over the
// users table.
package users

import (
	"context"

	"github.com/yshchur/contacts-api/internal/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	SetConfirmed(ctx context.Context, id string, confirmed bool) error
	UpdatePassword(ctx context.Context, id string, hash string) error
	UpdateAvatar(ctx context.Context, id string, url string) error
}
