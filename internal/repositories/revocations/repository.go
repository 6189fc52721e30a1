// Package revocations provides the ledger of invalidated refresh-token jtis.
package revocations

import (
	"context"
	"time"
)

type Repository interface {
	// Revoke records jti as revoked. It reports won=true when this call
	// inserted the record and won=false when the jti was already revoked.
	// The insert is atomic per jti, so concurrent revokes of the same token
	// resolve to exactly one winner.
	Revoke(ctx context.Context, jti, reason string, expiresAt time.Time) (won bool, err error)

	// IsRevoked reports whether jti has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// PurgeExpired removes records whose token has passed its natural expiry.
	PurgeExpired(ctx context.Context) (int64, error)
}
