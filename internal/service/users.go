package service

import (
	"fmt"
	"strings"

	"github.com/taxfree/card-wallet/internal/models"
)

// Generic user CRUD used by the admin screens. These records are the same
// rows the auth flow reads, but nothing here touches passwords or tokens.

// ListUsers returns all users
func (s *Service) ListUsers() ([]models.User, error) {
	return s.repo.ListUsers()
}

// GetUser returns a user by id
func (s *Service) GetUser(id int64) (*models.User, error) {
	return s.repo.FindUserByID(id)
}

// CreateUser creates a user without credentials
func (s *Service) CreateUser(name, email string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", models.ErrValidation)
	}

	user := &models.User{Name: name, Email: email}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser updates a user's name and email
func (s *Service) UpdateUser(id int64, name, email string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: name and email are required", models.ErrValidation)
	}
	return s.repo.UpdateUser(id, name, email)
}

// DeleteUser deletes a user by id
func (s *Service) DeleteUser(id int64) error {
	return s.repo.DeleteUser(id)
}
