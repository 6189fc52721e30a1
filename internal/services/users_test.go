package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yshchur/contacts-api/internal/auth"
	"github.com/yshchur/contacts-api/internal/common"
	"github.com/yshchur/contacts-api/internal/logging"
	"github.com/yshchur/contacts-api/internal/models"
)

type fakeUploader struct {
	calls int
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.example/avatars/" + userID, nil
}

func newUserFixture(t *testing.T) (*UserService, *fakeUsersRepo, *fakeCache, *fakeUploader) {
	t.Helper()
	users := newFakeUsersRepo()
	cache := newFakeCache()
	uploader := &fakeUploader{}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc := NewUserService(nil, &fakeManager{users: users, ledger: newFakeLedger()}, cache, uploader, logger)
	return svc, users, cache, uploader
}

func TestUserService_Get(t *testing.T) {
	svc, users, _, _ := newUserFixture(t)
	ctx := context.Background()

	created, err := users.Create(ctx, &models.User{Email: "a@x.com", Password: "h"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", got.Email)

	_, err = svc.Get(ctx, "ghost")
	require.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestUserService_UpdateAvatar(t *testing.T) {
	svc, users, cache, uploader := newUserFixture(t)
	ctx := context.Background()

	created, err := users.Create(ctx, &models.User{Email: "a@x.com", Password: "h"})
	require.NoError(t, err)

	token := &auth.Token{
		JTI:       "jti-1",
		Subject:   created.ID,
		Purpose:   auth.PurposeAccess,
		ExpiresAt: time.Now().Add(time.Minute),
	}

	identity, err := svc.UpdateAvatar(ctx, token, []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, 1, uploader.calls)
	require.Equal(t, "https://cdn.example/avatars/"+created.ID, identity.Avatar)

	// Persisted and cache entry refreshed for the requesting token.
	stored, err := users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, identity.Avatar, stored.Avatar)
	require.NotNil(t, cache.entries["jti-1"])
	require.Equal(t, identity.Avatar, cache.entries["jti-1"].Avatar)
}

func TestUserService_UpdateAvatar_UnknownUser(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)

	token := &auth.Token{JTI: "jti-1", Subject: "ghost", ExpiresAt: time.Now().Add(time.Minute)}
	_, err := svc.UpdateAvatar(context.Background(), token, []byte("img"), "image/png")
	require.ErrorIs(t, err, common.ErrUserNotFound)
}
