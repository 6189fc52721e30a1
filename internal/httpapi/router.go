// Package httpapi exposes the service operations over REST. It owns the
// mapping from error kinds to HTTP status codes; the services know nothing
// about transport.
package httpapi

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yshchur/contacts-api/internal/auth"
	"github.com/yshchur/contacts-api/internal/logging"
	"github.com/yshchur/contacts-api/internal/models"
	"github.com/yshchur/contacts-api/internal/repositories/contacts"
	"github.com/yshchur/contacts-api/internal/services"
)

// Authenticator resolves a raw access token to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, rawAccess string) (*models.Identity, *auth.Token, error)
}

// AuthAPI is the slice of AuthService the handlers use.
type AuthAPI interface {
	Authenticator
	Register(ctx context.Context, email, password string) (*models.User, error)
	ConfirmEmail(ctx context.Context, rawToken string) error
	RequestConfirmation(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, rawRefresh string) (*services.TokenPair, error)
	Logout(ctx context.Context, rawAccess, rawRefresh string) error
}

// UserAPI is the slice of UserService the handlers use.
type UserAPI interface {
	Get(ctx context.Context, id string) (*models.User, error)
	UpdateAvatar(ctx context.Context, token *auth.Token, data []byte, contentType string) (*models.Identity, error)
}

// ContactAPI is the slice of ContactService the handlers use.
type ContactAPI interface {
	List(ctx context.Context, userID string, f contacts.Filter) ([]*models.Contact, error)
	Get(ctx context.Context, userID string, id int64) (*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	Delete(ctx context.Context, userID string, id int64) error
	UpcomingBirthdays(ctx context.Context, userID string) ([]*models.Contact, error)
}

type Handler struct {
	auth     AuthAPI
	users    UserAPI
	contacts ContactAPI
	logger   logging.Logger
}

func NewHandler(authAPI AuthAPI, userAPI UserAPI, contactAPI ContactAPI, logger logging.Logger) *Handler {
	return &Handler{auth: authAPI, users: userAPI, contacts: contactAPI, logger: logger}
}

// Router assembles the API routes.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.handleSignup)
			r.Post("/login", h.handleLogin)
			r.Get("/refresh_token", h.handleRefresh)
			r.Get("/confirmed_email/{token}", h.handleConfirmEmail)
			r.Post("/request_email", h.handleRequestEmail)
			r.Post("/logout", h.handleLogout)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", h.handleMe)
				r.Patch("/avatar", h.handleUpdateAvatar)
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", h.handleListContacts)
				r.Post("/", h.handleCreateContact)
				r.Get("/birthdays", h.handleUpcomingBirthdays)
				r.Get("/{id}", h.handleGetContact)
				r.Put("/{id}", h.handleUpdateContact)
				r.Delete("/{id}", h.handleDeleteContact)
			})
		})
	})

	return r
}
