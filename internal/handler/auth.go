package handler

import (
	"net/http"

	"github.com/taxfree/card-wallet/internal/middleware"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  authUser `json:"user"`
}

type authUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, tok, err := h.svc.Register(req.Name, req.Email, req.Password)
	if err != nil {
		h.respondServiceError(w, err, "user not found")
		return
	}

	respondData(w, http.StatusCreated, authResponse{
		Token: tok,
		User:  authUser{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, tok, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		h.respondServiceError(w, err, "user not found")
		return
	}

	respondData(w, http.StatusOK, authResponse{
		Token: tok,
		User:  authUser{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

// Me returns the authenticated user's account
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.Identity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication token required")
		return
	}

	user, err := h.svc.CurrentUser(identity.UserID)
	if err != nil {
		h.respondServiceError(w, err, "user not found")
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	})
}
