package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyCredentials is returned when the username is blank or the password
// is empty.
var ErrEmptyCredentials = errors.New("username and password are required")

// Authenticator decides whether a credential pair may open a session.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) error
}

// StubAuthenticator accepts any non-blank username with any non-empty
// password. There is no account database behind it.
type StubAuthenticator struct{}

// Authenticate implements Authenticator.
func (StubAuthenticator) Authenticate(_ context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return ErrEmptyCredentials
	}
	return nil
}
