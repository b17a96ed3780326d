package service

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/taxfree/card-wallet/internal/config"
	"github.com/taxfree/card-wallet/internal/models"
	"github.com/taxfree/card-wallet/internal/repository"
	"github.com/taxfree/card-wallet/internal/storage"
	"github.com/taxfree/card-wallet/internal/token"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	registry, err := storage.NewRegistry(t.TempDir(), "taxfree")
	require.NoError(t, err)
	t.Cleanup(func() { registry.Close() })

	db, err := registry.Default()
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTTTL:     time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	tokens := token.NewService(cfg.JWTSecret, cfg.JWTTTL)
	repo := repository.NewRepository(db)
	return NewService(repo, registry, tokens, nil, logger, cfg)
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	user, tok, err := svc.Register("Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, "Alice", user.Name)
	require.NotEmpty(t, tok)

	// The issued token verifies back to the same identity.
	identity, err := svc.tokens.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, user.ID, identity.UserID)
	require.Equal(t, "alice@example.com", identity.Email)

	// The stored hash is not the plaintext password.
	stored, err := svc.repo.FindUserByEmail("alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, stored.PasswordHash)
	require.NotEqual(t, "secret1", stored.PasswordHash)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"missing name", "", "a@x.com", "secret1"},
		{"missing email", "A", "", "secret1"},
		{"missing password", "A", "a@x.com", ""},
		{"bad email no at", "A", "ax.com", "secret1"},
		{"bad email no domain", "A", "a@x", "secret1"},
		{"bad email spaces", "A", "a b@x.com", "secret1"},
		{"password too short", "A", "a@x.com", "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(tt.userName, tt.email, tt.password)
			require.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestRegister_PasswordLengthBoundary(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	_, _, err := svc.Register("A", "five@example.com", "12345")
	require.ErrorIs(t, err, models.ErrValidation)

	_, _, err = svc.Register("A", "six@example.com", "123456")
	require.NoError(t, err)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	_, _, err := svc.Register("Alice", "dup@example.com", "secret1")
	require.NoError(t, err)

	_, _, err = svc.Register("Mallory", "dup@example.com", "secret2")
	require.ErrorIs(t, err, models.ErrDuplicateEmail)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	registered, _, err := svc.Register("Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	user, tok, err := svc.Login("alice@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	identity, err := svc.tokens.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, registered.ID, identity.UserID)
}

func TestLogin_UniformFailures(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	_, _, err := svc.Register("Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	// An account created without credentials.
	_, err = svc.CreateUser("NoPass", "nopass@example.com")
	require.NoError(t, err)

	// Unknown email, wrong password, and passwordless account all look
	// the same to the caller.
	for _, tc := range []struct{ email, password string }{
		{"missing@example.com", "secret1"},
		{"alice@example.com", "wrong-password"},
		{"nopass@example.com", "secret1"},
	} {
		_, _, err := svc.Login(tc.email, tc.password)
		require.ErrorIs(t, err, models.ErrInvalidCredentials, "login %s", tc.email)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	_, _, err := svc.Login("", "secret1")
	require.ErrorIs(t, err, models.ErrValidation)

	_, _, err = svc.Login("a@x.com", "")
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestCurrentUser_Vanished(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	user, _, err := svc.Register("Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteUser(user.ID))

	// The token stays verifiable, but the account lookup reports the gap.
	_, err = svc.CurrentUser(user.ID)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateCard_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	user, _, err := svc.Register("Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.CreateCard(user.ID, &models.Card{Owner: "Alice"})
	require.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.CreateCard(user.ID, &models.Card{Barcode: "123"})
	require.ErrorIs(t, err, models.ErrValidation)

	card, err := svc.CreateCard(user.ID, &models.Card{Barcode: "123", Owner: "Alice"})
	require.NoError(t, err)
	require.Equal(t, user.ID, card.UserID)
}

func TestListCards_AllOwnersSentinel(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	user, _, err := svc.Register("Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.CreateCard(user.ID, &models.Card{Barcode: "1", Owner: "Alice"})
	require.NoError(t, err)
	_, err = svc.CreateCard(user.ID, &models.Card{Barcode: "2", Owner: "Mom"})
	require.NoError(t, err)

	cards, err := svc.ListCards(user.ID, models.CardFilter{Owner: "全部"})
	require.NoError(t, err)
	require.Len(t, cards, 2)
}
