package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yshchur/contacts-api/internal/models"
	"github.com/yshchur/contacts-api/internal/repositories/contacts"
)

type contactRequest struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber"`
	Birthday    string `json:"birthday"` // YYYY-MM-DD
	Description string `json:"description,omitempty"`
}

type contactResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber"`
	Birthday    string `json:"birthday"`
	Description string `json:"description,omitempty"`
}

func toContactResponse(c *models.Contact) contactResponse {
	return contactResponse{
		ID:          c.ID,
		Name:        c.Name,
		Surname:     c.Surname,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Birthday:    c.Birthday.Format("2006-01-02"),
		Description: c.Description,
	}
}

func toContactResponses(list []*models.Contact) []contactResponse {
	out := make([]contactResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toContactResponse(c))
	}
	return out
}

func (h *Handler) decodeContact(w http.ResponseWriter, r *http.Request) (*models.Contact, bool) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return nil, false
	}
	if req.Name == "" || req.Surname == "" || req.Email == "" {
		h.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Detail: "name, surname and email are required"})
		return nil, false
	}
	birthday, err := time.Parse("2006-01-02", req.Birthday)
	if err != nil {
		h.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Detail: "birthday must be YYYY-MM-DD"})
		return nil, false
	}

	return &models.Contact{
		UserID:      identityFrom(r.Context()).ID,
		Name:        req.Name,
		Surname:     req.Surname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Birthday:    birthday,
		Description: req.Description,
	}, true
}

func contactID(w http.ResponseWriter, r *http.Request, h *Handler) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Detail: "invalid contact id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) handleListContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := contacts.Filter{
		Name:    q.Get("name"),
		Surname: q.Get("surname"),
		Email:   q.Get("email"),
	}
	filter.Skip, _ = strconv.Atoi(q.Get("skip"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	list, err := h.contacts.List(r.Context(), identityFrom(r.Context()).ID, filter)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, toContactResponses(list))
}

func (h *Handler) handleGetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r, h)
	if !ok {
		return
	}

	contact, err := h.contacts.Get(r.Context(), identityFrom(r.Context()).ID, id)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, toContactResponse(contact))
}

func (h *Handler) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	contact, ok := h.decodeContact(w, r)
	if !ok {
		return
	}

	created, err := h.contacts.Create(r.Context(), contact)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusCreated, toContactResponse(created))
}

func (h *Handler) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r, h)
	if !ok {
		return
	}
	contact, ok := h.decodeContact(w, r)
	if !ok {
		return
	}
	contact.ID = id

	updated, err := h.contacts.Update(r.Context(), contact)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, toContactResponse(updated))
}

func (h *Handler) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r, h)
	if !ok {
		return
	}

	if err := h.contacts.Delete(r.Context(), identityFrom(r.Context()).ID, id); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	list, err := h.contacts.UpcomingBirthdays(r.Context(), identityFrom(r.Context()).ID)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.writeJSON(r.Context(), w, http.StatusOK, toContactResponses(list))
}
