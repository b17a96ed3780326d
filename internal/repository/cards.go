package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/taxfree/card-wallet/internal/models"
)

const cardColumns = "id, barcode, name, merchant, amount, date, note, image_url, owner, user_id, created_at, updated_at"

// Every card statement below conjoins user_id with the caller's account id.
// That conjunct is the ownership invariant: a card belonging to another user
// behaves exactly like a card that does not exist.

// ListCards returns the user's cards, newest first, narrowed by filter.
func (r *Repository) ListCards(userID int64, filter models.CardFilter) ([]models.Card, error) {
	query := "SELECT " + cardColumns + " FROM cards WHERE user_id = ?"
	args := []any{userID}

	if filter.Owner != "" {
		query += " AND owner = ?"
		args = append(args, filter.Owner)
	}
	if filter.Merchant != "" {
		query += " AND merchant = ?"
		args = append(args, filter.Merchant)
	}
	if filter.Search != "" {
		query += " AND (barcode LIKE ? OR name LIKE ? OR merchant LIKE ? OR owner LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term, term, term)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

// FindCardByID retrieves one of the user's cards by id
func (r *Repository) FindCardByID(userID, id int64) (*models.Card, error) {
	row := r.db.QueryRow("SELECT "+cardColumns+" FROM cards WHERE id = ? AND user_id = ?", id, userID)
	card, err := scanCard(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find card: %w", err)
	}
	return card, nil
}

// CreateCard inserts a card owned by userID. Any user_id in the payload is
// ignored; the column is always set from the authenticated caller.
func (r *Repository) CreateCard(userID int64, card *models.Card) error {
	card.UserID = userID
	query := `
		INSERT INTO cards (barcode, name, merchant, amount, date, note, image_url, owner, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query,
		card.Barcode, nullStr(card.Name), nullStr(card.Merchant), card.Amount,
		nullStr(card.Date), nullStr(card.Note), nullStr(card.ImageURL), nullStr(card.Owner), userID).
		Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)
	if isUniqueViolation(err) {
		return models.ErrDuplicateBarcode
	}
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// UpdateCard replaces the mutable fields of one of the user's cards
func (r *Repository) UpdateCard(userID, id int64, card *models.Card) error {
	query := `
		UPDATE cards
		SET barcode = ?, name = ?, merchant = ?, amount = ?, date = ?, note = ?, image_url = ?, owner = ?
		WHERE id = ? AND user_id = ?`
	res, err := r.db.Exec(query,
		card.Barcode, nullStr(card.Name), nullStr(card.Merchant), card.Amount,
		nullStr(card.Date), nullStr(card.Note), nullStr(card.ImageURL), nullStr(card.Owner),
		id, userID)
	if isUniqueViolation(err) {
		return models.ErrDuplicateBarcode
	}
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteCard deletes one of the user's cards
func (r *Repository) DeleteCard(userID, id int64) error {
	res, err := r.db.Exec("DELETE FROM cards WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListOwners returns the distinct non-blank owner labels across the user's cards
func (r *Repository) ListOwners(userID int64) ([]string, error) {
	query := `
		SELECT DISTINCT owner
		FROM cards
		WHERE user_id = ? AND owner IS NOT NULL AND TRIM(owner) != ''
		ORDER BY owner`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	defer rows.Close()

	owners := []string{}
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		if strings.TrimSpace(owner) != "" {
			owners = append(owners, owner)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	return owners, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.Card, error) {
	var card models.Card
	var name, merchant, date, note, imageURL, owner, updatedAt sql.NullString
	var amount sql.NullFloat64
	err := row.Scan(&card.ID, &card.Barcode, &name, &merchant, &amount,
		&date, &note, &imageURL, &owner, &card.UserID, &card.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	card.Name = name.String
	card.Merchant = merchant.String
	card.Date = date.String
	card.Note = note.String
	card.ImageURL = imageURL.String
	card.Owner = owner.String
	card.UpdatedAt = updatedAt.String
	if amount.Valid {
		card.Amount = &amount.Float64
	}
	return &card, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
