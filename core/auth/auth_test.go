package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubAuthenticator(t *testing.T) {
	ctx := context.Background()
	var a Authenticator = StubAuthenticator{}

	assert.NoError(t, a.Authenticate(ctx, "alice", "anything"))
	assert.ErrorIs(t, a.Authenticate(ctx, "", "pw"), ErrEmptyCredentials)
	assert.ErrorIs(t, a.Authenticate(ctx, "  ", "pw"), ErrEmptyCredentials)
	assert.ErrorIs(t, a.Authenticate(ctx, "alice", ""), ErrEmptyCredentials)
	// passwords are taken verbatim
	assert.NoError(t, a.Authenticate(ctx, "alice", "  "))
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.GenerateToken("alice")
	require.NoError(t, err)

	claims, err := issuer.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice", claims.Subject)
}

func TestParseTokenRejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.GenerateToken("alice")
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", time.Hour).ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ParseToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenIssuer("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.GenerateToken("alice")
	require.NoError(t, err)
	_, err = issuer.ParseToken(old)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
