// Package app assembles the server: configuration, storage backends, services,
// the HTTP router, and graceful shutdown.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yshchur/contacts-api/internal/auth"
	"github.com/yshchur/contacts-api/internal/config"
	"github.com/yshchur/contacts-api/internal/httpapi"
	"github.com/yshchur/contacts-api/internal/logging"
	"github.com/yshchur/contacts-api/internal/mail"
	"github.com/yshchur/contacts-api/internal/repositories/repomanager"
	"github.com/yshchur/contacts-api/internal/services"
	"github.com/yshchur/contacts-api/internal/sessioncache"
	"github.com/yshchur/contacts-api/internal/storage"
)

const (
	shutdownTimeout = 10 * time.Second
	purgeInterval   = time.Hour
)

type App struct {
	cfg    *config.Config
	logger logging.Logger

	db     *sql.DB
	rdb    *redis.Client
	repos  repomanager.Manager
	server *http.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rdb, err := sessioncache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}

	codec, err := auth.NewCodec([]byte(cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	mailer, err := newMailer(cfg, logger)
	if err != nil {
		return nil, err
	}

	avatars, err := storage.NewAvatarStore(ctx, storage.Config{
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 init error: %w", err)
	}

	repos := repomanager.NewPostgresManager()
	cache := sessioncache.NewRedisCache(rdb)

	authService := services.NewAuthService(db, repos, codec, cache, mailer, logger, services.AuthConfig{
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		VerifyTokenTTL:  cfg.VerifyTokenTTL,
	})
	userService := services.NewUserService(db, repos, cache, avatars, logger)
	contactService := services.NewContactService(db, repos)

	handler := httpapi.NewHandler(authService, userService, contactService, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		db:     db,
		rdb:    rdb,
		repos:  repos,
		server: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: handler.Router(),
		},
	}, nil
}

// newMailer picks Postmark when tokens are configured and falls back to
// logging the confirmation links otherwise.
func newMailer(cfg *config.Config, logger logging.Logger) (mail.Mailer, error) {
	if cfg.PostmarkServerToken == "" {
		logger.Warn(context.Background(), "postmark not configured, confirmation mail will be logged only")
		return mail.NewLogMailer(logger, cfg.BaseURL), nil
	}
	return mail.NewPostmarkMailer(mail.Config{
		ServerToken:  cfg.PostmarkServerToken,
		AccountToken: cfg.PostmarkAccountToken,
		From:         cfg.MailFrom,
		BaseURL:      cfg.BaseURL,
	})
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	go a.purgeLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info(ctx, "starting http server", "addr", a.cfg.HTTPAddr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error(ctx, "http shutdown", "error", err)
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error(ctx, "closing redis", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error(ctx, "closing db", "error", err)
	}

	return nil
}

// purgeLoop periodically deletes revocation records whose tokens have passed
// their natural expiry. They no longer affect verification, only table size.
func (a *App) purgeLoop(ctx context.Context) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.repos.Revocations(a.db).PurgeExpired(ctx)
			if err != nil {
				a.logger.Error(ctx, "purging expired revocations", "error", err)
				continue
			}
			if n > 0 {
				a.logger.Info(ctx, "purged expired revocations", "count", n)
			}
		}
	}
}
