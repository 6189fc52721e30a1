package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yshchur/contacts-api/internal/auth"
	"github.com/yshchur/contacts-api/internal/common"
	"github.com/yshchur/contacts-api/internal/logging"
	"github.com/yshchur/contacts-api/internal/models"
	"github.com/yshchur/contacts-api/internal/repositories/repomanager"
	"github.com/yshchur/contacts-api/internal/sessioncache"
)

// AvatarUploader stores an avatar image and returns its public URL.
type AvatarUploader interface {
	Upload(ctx context.Context, userID string, data []byte, contentType string) (string, error)
}

// UserService handles profile operations for authenticated users.
type UserService struct {
	db      *sql.DB
	repos   repomanager.Manager
	cache   sessioncache.Cache
	avatars AvatarUploader
	logger  logging.Logger
}

func NewUserService(db *sql.DB, repos repomanager.Manager, cache sessioncache.Cache, avatars AvatarUploader, logger logging.Logger) *UserService {
	return &UserService{db: db, repos: repos, cache: cache, avatars: avatars, logger: logger}
}

// Get returns the user record for id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repos.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return user, nil
}

// UpdateAvatar uploads the image, persists the new URL, and refreshes the
// session-cache entry for the token that made the request so the change is
// visible without waiting out the cache TTL.
func (s *UserService) UpdateAvatar(ctx context.Context, token *auth.Token, data []byte, contentType string) (*models.Identity, error) {
	url, err := s.avatars.Upload(ctx, token.Subject, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("storing avatar: %w", err)
	}

	repo := s.repos.Users(s.db)
	if err := repo.UpdateAvatar(ctx, token.Subject, url); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("updating avatar: %w", err)
	}

	user, err := repo.GetByID(ctx, token.Subject)
	if err != nil {
		return nil, fmt.Errorf("reloading user: %w", err)
	}

	identity := user.Identity()
	if ttl := time.Until(token.ExpiresAt); ttl > 0 {
		if err := s.cache.Store(ctx, token.JTI, identity, ttl); err != nil {
			s.logger.Warn(ctx, "session cache store", "error", err, "jti", token.JTI)
		}
	}
	return identity, nil
}
