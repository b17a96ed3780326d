package service

import (
	"fmt"
	"strings"

	"github.com/taxfree/card-wallet/internal/models"
)

// allOwners is the sentinel the client sends for an unfiltered owner listing.
const allOwners = "全部"

// ListCards returns the caller's cards narrowed by filter
func (s *Service) ListCards(userID int64, filter models.CardFilter) ([]models.Card, error) {
	if filter.Owner == allOwners {
		filter.Owner = ""
	}
	return s.repo.ListCards(userID, filter)
}

// GetCard returns one of the caller's cards
func (s *Service) GetCard(userID, cardID int64) (*models.Card, error) {
	return s.repo.FindCardByID(userID, cardID)
}

// CreateCard stores a new card owned by the caller
func (s *Service) CreateCard(userID int64, card *models.Card) (*models.Card, error) {
	if strings.TrimSpace(card.Barcode) == "" {
		return nil, fmt.Errorf("%w: barcode is required", models.ErrValidation)
	}
	if strings.TrimSpace(card.Owner) == "" {
		return nil, fmt.Errorf("%w: owner is required", models.ErrValidation)
	}

	if err := s.repo.CreateCard(userID, card); err != nil {
		return nil, err
	}

	s.log.Infof("Card created for user %d: %s", userID, card.Barcode)
	return card, nil
}

// UpdateCard replaces one of the caller's cards
func (s *Service) UpdateCard(userID, cardID int64, card *models.Card) error {
	if strings.TrimSpace(card.Barcode) == "" {
		return fmt.Errorf("%w: barcode is required", models.ErrValidation)
	}
	if strings.TrimSpace(card.Owner) == "" {
		return fmt.Errorf("%w: owner is required", models.ErrValidation)
	}
	return s.repo.UpdateCard(userID, cardID, card)
}

// DeleteCard deletes one of the caller's cards
func (s *Service) DeleteCard(userID, cardID int64) error {
	return s.repo.DeleteCard(userID, cardID)
}

// ListOwners returns the distinct owner labels across the caller's cards
func (s *Service) ListOwners(userID int64) ([]string, error) {
	return s.repo.ListOwners(userID)
}
