package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewService("super-secret", time.Hour)

	tok, err := svc.Issue(42, "alice@example.com")
	require.NoError(t, err)

	identity, err := svc.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, int64(42), identity.UserID)
	require.Equal(t, "alice@example.com", identity.Email)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	svc := NewService("super-secret", -time.Minute)

	tok, err := svc.Issue(1, "a@x.com")
	require.NoError(t, err)

	_, err = svc.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewService("right-secret", time.Hour)
	verifier := NewService("wrong-secret", time.Hour)

	tok, err := issuer.Issue(1, "a@x.com")
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	svc := NewService("secret", time.Hour)

	for _, tok := range []string{"", "not.a.jwt", "a.b", strings.Repeat("x", 100)} {
		_, err := svc.Verify(tok)
		require.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestVerify_Tampered(t *testing.T) {
	t.Parallel()

	svc := NewService("secret", time.Hour)

	tok, err := svc.Issue(7, "a@x.com")
	require.NoError(t, err)

	// Flip a character in the payload segment.
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = svc.Verify(tampered)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_UniformRejection(t *testing.T) {
	t.Parallel()

	// Expired, forged, and malformed tokens must be indistinguishable
	// through the exported error.
	expired := NewService("secret", -time.Minute)
	expiredTok, err := expired.Issue(1, "a@x.com")
	require.NoError(t, err)

	forged, err := NewService("other", time.Hour).Issue(1, "a@x.com")
	require.NoError(t, err)

	svc := NewService("secret", time.Hour)
	for _, tok := range []string{expiredTok, forged, "garbage"} {
		_, err := svc.Verify(tok)
		require.True(t, errors.Is(err, ErrInvalidToken))
	}
}
