package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"bloodlink/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, CheckPassword(hash, "correct horse"))
	assert.ErrorIs(t, CheckPassword(hash, "battery staple"), types.ErrInvalidCredentials)

	_, err = HashPassword("short")
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = HashPassword(strings.Repeat("a", 80))
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = HashPassword(strings.Repeat("a", MaxPasswordLength))
	assert.NoError(t, err)
}

func TestIssuer_RoundTrip(t *testing.T) {
	ctx := context.Background()
	iss, err := NewIssuer("test-secret", "bloodlink", time.Hour)
	require.NoError(t, err)

	sess, err := iss.Issue("user-1", "donor@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)

	got, err := iss.Verify(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "donor@example.com", got.Email)
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestIssuer_Rejects(t *testing.T) {
	ctx := context.Background()
	iss, err := NewIssuer("test-secret", "bloodlink", time.Hour)
	require.NoError(t, err)

	other, err := NewIssuer("other-secret", "bloodlink", time.Hour)
	require.NoError(t, err)
	forged, err := other.Issue("user-1", "")
	require.NoError(t, err)

	_, err = iss.Verify(ctx, forged.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.Verify(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := iss.Issue("user-1", "")
	require.NoError(t, err)
	iss.now = time.Now

	_, err = iss.Verify(ctx, stale.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	a, err := NewIssuer("secret-a", "bloodlink", time.Hour)
	require.NoError(t, err)
	b, err := NewIssuer("secret-b", "bloodlink", time.Hour)
	require.NoError(t, err)

	sess, err := b.Issue("user-2", "")
	require.NoError(t, err)

	got, err := Chain{a, b}.Verify(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-2", got.UserID)

	_, err = Chain{a}.Verify(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = Chain{}.Verify(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer("", "bloodlink", time.Hour)
	assert.Error(t, err)
}
