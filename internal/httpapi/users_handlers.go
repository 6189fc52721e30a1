package httpapi

import (
	"io"
	"net/http"
)

// maxAvatarBytes caps avatar uploads at 5 MiB.
const maxAvatarBytes = 5 << 20

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	user, err := h.users.Get(r.Context(), identity.ID)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	h.writeJSON(r.Context(), w, http.StatusOK, userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Confirmed: user.Confirmed,
		Avatar:    user.Avatar,
	})
}

func (h *Handler) handleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		h.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Detail: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Detail: "missing file field"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes))
	if err != nil {
		h.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Detail: "reading upload"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	identity, err := h.users.UpdateAvatar(r.Context(), tokenFrom(r.Context()), data, contentType)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	h.writeJSON(r.Context(), w, http.StatusOK, userResponse{
		ID:        identity.ID,
		Email:     identity.Email,
		Confirmed: identity.Confirmed,
		Avatar:    identity.Avatar,
	})
}
