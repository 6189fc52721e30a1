package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/yshchur/contacts-api/internal/auth"
	"github.com/yshchur/contacts-api/internal/models"
)

type ctxKey int

const (
	identityKey ctxKey = iota
	tokenKey
)

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// requireAuth resolves the bearer token to an identity and stores both the
// identity and the decoded token on the request context.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			h.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Detail: "missing bearer token"})
			return
		}

		identity, token, err := h.auth.Authenticate(r.Context(), raw)
		if err != nil {
			h.writeError(r.Context(), w, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFrom(ctx context.Context) *models.Identity {
	identity, _ := ctx.Value(identityKey).(*models.Identity)
	return identity
}

func tokenFrom(ctx context.Context) *auth.Token {
	token, _ := ctx.Value(tokenKey).(*auth.Token)
	return token
}
