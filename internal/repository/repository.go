package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/taxfree/card-wallet/internal/models"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database. A unique-constraint failure
// on email is translated to ErrDuplicateEmail: the pre-insert duplicate check
// in the service layer can race with a concurrent registration, and the
// constraint is the arbiter.
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (name, email, password)
		VALUES (?, ?, ?)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, user.Name, user.Email, nullStr(user.PasswordHash)).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return models.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	var hash sql.NullString
	query := `
		SELECT id, name, email, password, created_at, updated_at
		FROM users
		WHERE email = ?`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Name, &user.Email, &hash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user.PasswordHash = hash.String
	return user, nil
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	var hash sql.NullString
	query := `
		SELECT id, name, email, password, created_at, updated_at
		FROM users
		WHERE id = ?`
	err := r.db.QueryRow(query, id).
		Scan(&user.ID, &user.Name, &user.Email, &hash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user.PasswordHash = hash.String
	return user, nil
}

// ListUsers returns all users ordered newest first
func (r *Repository) ListUsers() ([]models.User, error) {
	query := `
		SELECT id, name, email, created_at, updated_at
		FROM users
		ORDER BY id DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser updates name and email of an existing user
func (r *Repository) UpdateUser(id int64, name, email string) error {
	res, err := r.db.Exec("UPDATE users SET name = ?, email = ? WHERE id = ?", name, email, id)
	if isUniqueViolation(err) {
		return models.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteUser deletes a user by id
func (r *Repository) DeleteUser(id int64) error {
	res, err := r.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite unique-constraint failure.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
			code == sqlite3.SQLITE_CONSTRAINT
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
