package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/taxfree/card-wallet/internal/middleware"
	"github.com/taxfree/card-wallet/internal/models"
	"github.com/taxfree/card-wallet/internal/token"
)

// identity pulls the authenticated identity out of the context; the auth
// middleware guarantees it is there for every route registered below it.
func identity(w http.ResponseWriter, r *http.Request) (*token.Identity, bool) {
	id, ok := middleware.Identity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication token required")
	}
	return id, ok
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

// ListCards returns the caller's cards, filtered by query parameters
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := models.CardFilter{
		Owner:    q.Get("owner"),
		Merchant: q.Get("merchant"),
		Search:   q.Get("search"),
	}

	cards, err := h.svc.ListCards(id.UserID, filter)
	if err != nil {
		h.respondServiceError(w, err, "card not found")
		return
	}
	respondData(w, http.StatusOK, cards)
}

// GetCard returns one of the caller's cards
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	cardID, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "card not found")
		return
	}

	card, err := h.svc.GetCard(id.UserID, cardID)
	if err != nil {
		h.respondServiceError(w, err, "card not found")
		return
	}
	respondData(w, http.StatusOK, card)
}

// CreateCard stores a new card for the caller
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var card models.Card
	if err := decodeJSON(r, &card); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.svc.CreateCard(id.UserID, &card)
	if err != nil {
		h.respondServiceError(w, err, "card not found")
		return
	}
	respondData(w, http.StatusCreated, created)
}

// UpdateCard replaces one of the caller's cards
func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	cardID, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "card not found")
		return
	}

	var card models.Card
	if err := decodeJSON(r, &card); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.UpdateCard(id.UserID, cardID, &card); err != nil {
		h.respondServiceError(w, err, "card not found")
		return
	}
	respondMessage(w, http.StatusOK, "Card updated successfully")
}

// DeleteCard deletes one of the caller's cards
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	cardID, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "card not found")
		return
	}

	if err := h.svc.DeleteCard(id.UserID, cardID); err != nil {
		h.respondServiceError(w, err, "card not found")
		return
	}
	respondMessage(w, http.StatusOK, "Card deleted successfully")
}

// ListOwners returns the caller's distinct owner labels
func (h *Handler) ListOwners(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	owners, err := h.svc.ListOwners(id.UserID)
	if err != nil {
		h.respondServiceError(w, err, "card not found")
		return
	}
	respondData(w, http.StatusOK, owners)
}
