package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/taxfree/card-wallet/internal/storage"
)

// Database-viewer routes for operators. The ?db= query parameter selects the
// logical database, defaulting to the primary one.

// ListTables returns the table names of a database
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	dbName := r.URL.Query().Get("db")
	tables, err := h.svc.Tables(dbName)
	if err != nil {
		h.respondDBError(w, err)
		return
	}
	respondData(w, http.StatusOK, tables)
}

// TableStructure returns the column layout of a table
func (h *Handler) TableStructure(w http.ResponseWriter, r *http.Request) {
	dbName := r.URL.Query().Get("db")
	table := mux.Vars(r)["table"]

	cols, err := h.svc.TableStructure(dbName, table)
	if err != nil {
		h.respondDBError(w, err)
		return
	}
	respondData(w, http.StatusOK, cols)
}

// TableData returns up to 1000 rows of a table
func (h *Handler) TableData(w http.ResponseWriter, r *http.Request) {
	dbName := r.URL.Query().Get("db")
	table := mux.Vars(r)["table"]

	rows, err := h.svc.TableData(dbName, table)
	if err != nil {
		h.respondDBError(w, err)
		return
	}
	respondData(w, http.StatusOK, rows)
}

// ListDatabases returns all logical database names
func (h *Handler) ListDatabases(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.ListDatabases()
	if err != nil {
		h.respondDBError(w, err)
		return
	}
	respondData(w, http.StatusOK, names)
}

type databaseRequest struct {
	DBName string `json:"dbName"`
}

// CreateDatabase creates a new logical database
func (h *Handler) CreateDatabase(w http.ResponseWriter, r *http.Request) {
	var req databaseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DBName == "" {
		respondError(w, http.StatusBadRequest, "database name is required")
		return
	}

	if err := h.svc.CreateDatabase(req.DBName); err != nil {
		h.respondDBError(w, err)
		return
	}
	respondMessage(w, http.StatusCreated, "Database created successfully")
}

// DropDatabase deletes a logical database
func (h *Handler) DropDatabase(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := h.svc.DropDatabase(name); err != nil {
		h.respondDBError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Database deleted successfully")
}

func (h *Handler) respondDBError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrBadName) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondServiceError(w, err, "table not found")
}
