package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taxfree/card-wallet/internal/models"
)

func createTestUsers(t *testing.T, repo *Repository) (alice, bob int64) {
	t.Helper()
	a := &models.User{Name: "Alice", Email: "alice@example.com"}
	b := &models.User{Name: "Bob", Email: "bob@example.com"}
	require.NoError(t, repo.CreateUser(a))
	require.NoError(t, repo.CreateUser(b))
	return a.ID, b.ID
}

func TestCreateAndGetCard(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	alice, _ := createTestUsers(t, repo)

	amount := 25.5
	card := &models.Card{
		Barcode:  "123456",
		Name:     "Shoes",
		Merchant: "Store",
		Amount:   &amount,
		Owner:    "Alice",
	}
	require.NoError(t, repo.CreateCard(alice, card))
	require.NotZero(t, card.ID)
	require.Equal(t, alice, card.UserID)

	found, err := repo.FindCardByID(alice, card.ID)
	require.NoError(t, err)
	require.Equal(t, "123456", found.Barcode)
	require.Equal(t, "Store", found.Merchant)
	require.NotNil(t, found.Amount)
	require.Equal(t, 25.5, *found.Amount)
}

func TestCardOwnership_CrossTenantIsNotFound(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	alice, bob := createTestUsers(t, repo)

	card := &models.Card{Barcode: "111", Owner: "Alice"}
	require.NoError(t, repo.CreateCard(alice, card))

	// Another account must see someone else's card as missing, not
	// forbidden, for reads, updates, and deletes alike.
	_, err := repo.FindCardByID(bob, card.ID)
	require.ErrorIs(t, err, models.ErrNotFound)

	err = repo.UpdateCard(bob, card.ID, &models.Card{Barcode: "222", Owner: "Bob"})
	require.ErrorIs(t, err, models.ErrNotFound)

	err = repo.DeleteCard(bob, card.ID)
	require.ErrorIs(t, err, models.ErrNotFound)

	// The card is untouched for its owner.
	found, err := repo.FindCardByID(alice, card.ID)
	require.NoError(t, err)
	require.Equal(t, "111", found.Barcode)
}

func TestCreateCard_ForgedUserIDIgnored(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	alice, bob := createTestUsers(t, repo)

	card := &models.Card{Barcode: "999", Owner: "Me", UserID: bob}
	require.NoError(t, repo.CreateCard(alice, card))
	require.Equal(t, alice, card.UserID)

	_, err := repo.FindCardByID(bob, card.ID)
	require.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.FindCardByID(alice, card.ID)
	require.NoError(t, err)
}

func TestListCards_ScopedAndFiltered(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	alice, bob := createTestUsers(t, repo)

	seed := []models.Card{
		{Barcode: "a1", Name: "Coffee card", Merchant: "Cafe", Owner: "Alice"},
		{Barcode: "a2", Name: "Bakery card", Merchant: "Bakery", Owner: "Mom"},
		{Barcode: "a3", Name: "Cafe bonus", Merchant: "Cafe", Owner: "Alice"},
	}
	for i := range seed {
		require.NoError(t, repo.CreateCard(alice, &seed[i]))
	}
	require.NoError(t, repo.CreateCard(bob, &models.Card{Barcode: "b1", Merchant: "Cafe", Owner: "Bob"}))

	all, err := repo.ListCards(alice, models.CardFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, c := range all {
		require.Equal(t, alice, c.UserID)
	}

	byOwner, err := repo.ListCards(alice, models.CardFilter{Owner: "Alice"})
	require.NoError(t, err)
	require.Len(t, byOwner, 2)

	byMerchant, err := repo.ListCards(alice, models.CardFilter{Merchant: "Bakery"})
	require.NoError(t, err)
	require.Len(t, byMerchant, 1)
	require.Equal(t, "a2", byMerchant[0].Barcode)

	bySearch, err := repo.ListCards(alice, models.CardFilter{Search: "cafe"})
	require.NoError(t, err)
	require.Len(t, bySearch, 2)

	// Bob only ever sees his own card, whatever the filter.
	bobCards, err := repo.ListCards(bob, models.CardFilter{Merchant: "Cafe"})
	require.NoError(t, err)
	require.Len(t, bobCards, 1)
	require.Equal(t, "b1", bobCards[0].Barcode)
}

func TestCreateCard_DuplicateBarcodePerUser(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	alice, bob := createTestUsers(t, repo)

	require.NoError(t, repo.CreateCard(alice, &models.Card{Barcode: "dup", Owner: "A"}))

	err := repo.CreateCard(alice, &models.Card{Barcode: "dup", Owner: "A"})
	require.ErrorIs(t, err, models.ErrDuplicateBarcode)

	// The barcode is unique per wallet, not globally.
	require.NoError(t, repo.CreateCard(bob, &models.Card{Barcode: "dup", Owner: "B"}))
}

func TestUpdateCard(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	alice, _ := createTestUsers(t, repo)

	card := &models.Card{Barcode: "orig", Owner: "Alice"}
	require.NoError(t, repo.CreateCard(alice, card))

	updated := &models.Card{Barcode: "changed", Merchant: "New Store", Owner: "Alice"}
	require.NoError(t, repo.UpdateCard(alice, card.ID, updated))

	found, err := repo.FindCardByID(alice, card.ID)
	require.NoError(t, err)
	require.Equal(t, "changed", found.Barcode)
	require.Equal(t, "New Store", found.Merchant)
}

func TestListOwners(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	alice, bob := createTestUsers(t, repo)

	for i, owner := range []string{"Mom", "Alice", "Mom", ""} {
		card := &models.Card{Barcode: string(rune('a' + i)), Owner: owner}
		if owner == "" {
			card.Owner = " "
		}
		require.NoError(t, repo.CreateCard(alice, card))
	}
	require.NoError(t, repo.CreateCard(bob, &models.Card{Barcode: "x", Owner: "Bob"}))

	owners, err := repo.ListOwners(alice)
	require.NoError(t, err)
	require.Equal(t, []string{"Alice", "Mom"}, owners)
}
