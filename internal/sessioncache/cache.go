// Package sessioncache maps an active access-token jti to its resolved
// identity, so repeated authentications skip the credential store.
//
// The cache has no authority: it may be flushed entirely at any time and
// every caller must fall back to the credential store on a miss or error.
package sessioncache

import (
	"context"
	"time"

	"github.com/yshchur/contacts-api/internal/models"
)

type Cache interface {
	// Lookup returns the cached identity for jti, or nil on a miss.
	Lookup(ctx context.Context, jti string) (*models.Identity, error)

	// Store caches identity under jti. The ttl must not exceed the access
	// token's remaining lifetime so the entry never outlives the token.
	Store(ctx context.Context, jti string, identity *models.Identity, ttl time.Duration) error

	// Invalidate drops the entry for jti.
	Invalidate(ctx context.Context, jti string) error
}
