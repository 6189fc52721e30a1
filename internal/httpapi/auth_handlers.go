package httpapi

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"
)

const minPasswordLength = 8

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Confirmed bool   `json:"confirmed"`
	Avatar    string `json:"avatar,omitempty"`
}

type signupResponse struct {
	User   userResponse `json:"user"`
	Detail string       `json:"detail"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		h.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Detail: "invalid email address"})
		return
	}
	if len(req.Password) < minPasswordLength {
		h.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Detail: "password must be at least 8 characters"})
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	h.writeJSON(r.Context(), w, http.StatusCreated, signupResponse{
		User:   userResponse{ID: user.ID, Email: user.Email, Confirmed: user.Confirmed},
		Detail: "User successfully created. Check your email for confirmation.",
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	pair, err := h.auth.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	h.writeJSON(r.Context(), w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

// handleRefresh rotates the refresh token presented as the bearer credential.
func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	raw := bearerToken(r)
	if raw == "" {
		h.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Detail: "missing bearer token"})
		return
	}

	pair, err := h.auth.Refresh(r.Context(), raw)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	h.writeJSON(r.Context(), w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

func (h *Handler) handleConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.auth.ConfirmEmail(r.Context(), token); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, messageResponse{Message: "Email confirmed"})
}

type requestEmailRequest struct {
	Email string `json:"email"`
}

func (h *Handler) handleRequestEmail(w http.ResponseWriter, r *http.Request) {
	var req requestEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	if err := h.auth.RequestConfirmation(r.Context(), strings.TrimSpace(req.Email)); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, messageResponse{Message: "Check your email for confirmation."})
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// handleLogout takes the access token from the Authorization header and the
// refresh token from the body, and revokes the session.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}

	if err := h.auth.Logout(r.Context(), bearerToken(r), req.RefreshToken); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, messageResponse{Message: "Logged out"})
}
