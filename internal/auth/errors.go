package auth

import "github.com/pkg/errors"

// Errors returned by the token and credential paths.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user is inactive")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnknownSubject     = errors.New("token subject does not match a user")
)
