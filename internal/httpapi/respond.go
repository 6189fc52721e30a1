package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yshchur/contacts-api/internal/common"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *Handler) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error(ctx, "encoding response", "error", err)
	}
}

// writeError maps service error kinds to HTTP statuses. Anything unmatched
// is an internal error and keeps its detail out of the response.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrDuplicateEmail):
		h.writeJSON(ctx, w, http.StatusConflict, errorResponse{Detail: err.Error()})
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrNotVerified),
		errors.Is(err, common.ErrMalformedToken),
		errors.Is(err, common.ErrInvalidSignature),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrPurposeMismatch),
		errors.Is(err, common.ErrTokenRevoked):
		h.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Detail: err.Error()})
	case errors.Is(err, common.ErrUserNotFound), errors.Is(err, common.ErrNotFound):
		h.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Detail: err.Error()})
	default:
		h.logger.Error(ctx, "request failed", "error", err)
		h.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
	}
}
