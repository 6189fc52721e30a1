// Package services contains the business logic: authentication and session
// management, user profiles, and contacts.
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
	"github.com/yshchur/contacts-api/internal/mail"
	"github.com/yshchur/contacts-api/internal/models"
	"github.com/yshchur/contacts-api/internal/repositories/repomanager"
	"github.com/yshchur/contacts-api/internal/sessioncache"
)

// Revocation reasons written to the ledger.
const (
	revokeReasonLogout  = "logout"
	revokeReasonRotated = "rotated"
)

const mailSendTimeout = 10 * time.Second

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService orchestrates registration, login, refresh rotation, logout,
// email confirmation, and cache-backed authentication.
type AuthService struct {
	db     *sql.DB
	repos  repomanager.Manager
	codec  *auth.Codec
	cache  sessioncache.Cache
	mailer mail.Mailer
	logger logging.Logger

	accessTTL  time.Duration
	refreshTTL time.Duration
	verifyTTL  time.Duration
}

type AuthConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	VerifyTokenTTL  time.Duration
}

func NewAuthService(
	db *sql.DB,
	repos repomanager.Manager,
	codec *auth.Codec,
	cache sessioncache.Cache,
	mailer mail.Mailer,
	logger logging.Logger,
	cfg AuthConfig,
) *AuthService {
	return &AuthService{
		db:         db,
		repos:      repos,
		codec:      codec,
		cache:      cache,
		mailer:     mailer,
		logger:     logger,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		verifyTTL:  cfg.VerifyTokenTTL,
	}
}

// Register creates an unconfirmed user and mails the verification link.
// Mail delivery runs detached from the request: a failed or slow send never
// rolls back the created account.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.repos.Users(s.db).Create(ctx, &models.User{Email: email, Password: hash})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.sendConfirmation(ctx, user)
	return user, nil
}

// RequestConfirmation re-sends the verification mail. To avoid account
// enumeration it reports success whether or not the email is registered;
// already-confirmed accounts get no mail.
func (s *AuthService) RequestConfirmation(ctx context.Context, email string) error {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("loading user: %w", err)
	}
	if user.Confirmed {
		return nil
	}

	s.sendConfirmation(ctx, user)
	return nil
}

func (s *AuthService) sendConfirmation(ctx context.Context, user *models.User) {
	token, err := s.codec.Issue(user.ID, auth.PurposeEmailVerify, s.verifyTTL)
	if err != nil {
		s.logger.Error(ctx, "issuing verification token", "error", err, "user_id", user.ID)
		return
	}

	// Detach from the request context so a client disconnect does not cancel
	// the send, but still bound it with a timeout.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailSendTimeout)
	go func() {
		defer cancel()
		if err := s.mailer.SendConfirmation(sendCtx, user.Email, token.Raw); err != nil {
			s.logger.Error(sendCtx, "sending confirmation mail", "error", err, "email", user.Email)
		}
	}()
}

// ConfirmEmail verifies an email_verify token and marks the account
// confirmed. Confirming an already-confirmed account succeeds idempotently.
func (s *AuthService) ConfirmEmail(ctx context.Context, rawToken string) error {
	token, err := s.codec.Verify(rawToken, auth.PurposeEmailVerify)
	if err != nil {
		return err
	}

	repo := s.repos.Users(s.db)
	user, err := repo.GetByID(ctx, token.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUserNotFound
		}
		return fmt.Errorf("loading user: %w", err)
	}
	if user.Confirmed {
		return nil
	}

	if err := repo.SetConfirmed(ctx, user.ID, true); err != nil {
		return fmt.Errorf("confirming user: %w", err)
	}
	return nil
}

// Login verifies credentials and issues an access/refresh pair. Unknown
// email and wrong password produce the identical error so accounts cannot
// be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			auth.CheckDummyPassword(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, common.ErrInvalidCredentials
	}
	if !user.Confirmed {
		return nil, common.ErrNotVerified
	}

	return s.issuePair(user.ID)
}

// Refresh rotates a refresh token: verify the old token, issue the new pair,
// then atomically revoke the old jti. Issue-before-revoke means a crash in
// between leaves two usable refresh tokens for the same subject rather than
// a locked-out user. If the atomic revoke reports the jti already revoked,
// a concurrent rotation won and this call returns ErrTokenRevoked.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (*TokenPair, error) {
	token, err := s.codec.Verify(rawRefresh, auth.PurposeRefresh)
	if err != nil {
		return nil, err
	}

	ledger := s.repos.Revocations(s.db)
	revoked, err := ledger.IsRevoked(ctx, token.JTI)
	if err != nil {
		return nil, fmt.Errorf("checking revocation: %w", err)
	}
	if revoked {
		return nil, common.ErrTokenRevoked
	}

	pair, err := s.issuePair(token.Subject)
	if err != nil {
		return nil, err
	}

	won, err := ledger.Revoke(ctx, token.JTI, revokeReasonRotated, token.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("revoking rotated token: %w", err)
	}
	if !won {
		// A concurrent refresh beat us; the pair issued above is discarded
		// and expires on its own.
		return nil, common.ErrTokenRevoked
	}

	// The access token minted alongside the old refresh token is recorded in
	// its claims; evict its cached identity. Best effort.
	if token.PairJTI != "" {
		if err := s.cache.Invalidate(ctx, token.PairJTI); err != nil {
			s.logger.Warn(ctx, "invalidating session cache", "error", err, "jti", token.PairJTI)
		}
	}

	return pair, nil
}

// Logout revokes the refresh token and evicts the access token's cached
// identity. An already-revoked refresh token is treated as success.
func (s *AuthService) Logout(ctx context.Context, rawAccess, rawRefresh string) error {
	refresh, err := s.codec.Verify(rawRefresh, auth.PurposeRefresh)
	if err != nil {
		return err
	}

	if _, err := s.repos.Revocations(s.db).Revoke(ctx, refresh.JTI, revokeReasonLogout, refresh.ExpiresAt); err != nil {
		return fmt.Errorf("revoking refresh token: %w", err)
	}

	// The access token may already be expired; that is fine, its cache entry
	// is gone too.
	if access, err := s.codec.Verify(rawAccess, auth.PurposeAccess); err == nil {
		if err := s.cache.Invalidate(ctx, access.JTI); err != nil {
			s.logger.Warn(ctx, "invalidating session cache", "error", err, "jti", access.JTI)
		}
	}

	return nil
}

// Authenticate resolves an access token to an identity, hitting the session
// cache first and falling back to the credential store. Cache failures are
// recovered locally and never surfaced.
func (s *AuthService) Authenticate(ctx context.Context, rawAccess string) (*models.Identity, *auth.Token, error) {
	token, err := s.codec.Verify(rawAccess, auth.PurposeAccess)
	if err != nil {
		return nil, nil, err
	}

	identity, err := s.cache.Lookup(ctx, token.JTI)
	if err != nil {
		s.logger.Warn(ctx, "session cache lookup", "error", err, "jti", token.JTI)
	}
	if identity != nil {
		return identity, token, nil
	}

	user, err := s.repos.Users(s.db).GetByID(ctx, token.Subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("loading user: %w", err)
	}

	identity = user.Identity()
	if ttl := time.Until(token.ExpiresAt); ttl > 0 {
		if err := s.cache.Store(ctx, token.JTI, identity, ttl); err != nil {
			s.logger.Warn(ctx, "session cache store", "error", err, "jti", token.JTI)
		}
	}

	return identity, token, nil
}

// issuePair mints an access token and a refresh token for subject. The
// refresh token records the access jti so rotation can evict its cache entry.
func (s *AuthService) issuePair(subject string) (*TokenPair, error) {
	access, err := s.codec.Issue(subject, auth.PurposeAccess, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}
	refresh, err := s.codec.IssuePaired(subject, auth.PurposeRefresh, s.refreshTTL, access.JTI)
	if err != nil {
		return nil, fmt.Errorf("issuing refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access.Raw, RefreshToken: refresh.Raw}, nil
}
