package handler

import (
	"net/http"
)

// Generic user CRUD for the admin screens. This surface predates the
// authenticated identity flow and stays separate from it.

type userRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListUsers returns all users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers()
	if err != nil {
		h.respondServiceError(w, err, "user not found")
		return
	}
	respondData(w, http.StatusOK, users)
}

// GetUser returns a user by id
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	user, err := h.svc.GetUser(id)
	if err != nil {
		h.respondServiceError(w, err, "user not found")
		return
	}
	respondData(w, http.StatusOK, user)
}

// CreateUser creates a user without credentials
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.svc.CreateUser(req.Name, req.Email)
	if err != nil {
		h.respondServiceError(w, err, "user not found")
		return
	}
	respondData(w, http.StatusCreated, user)
}

// UpdateUser updates a user's name and email
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.UpdateUser(id, req.Name, req.Email); err != nil {
		h.respondServiceError(w, err, "user not found")
		return
	}
	respondMessage(w, http.StatusOK, "User updated successfully")
}

// DeleteUser deletes a user by id
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.svc.DeleteUser(id); err != nil {
		h.respondServiceError(w, err, "user not found")
		return
	}
	respondMessage(w, http.StatusOK, "User deleted successfully")
}
