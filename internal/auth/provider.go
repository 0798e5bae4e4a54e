// Package auth implements the authentication-provider boundary: credential
// storage, sign-in/sign-up, and verification mail dispatch. The rest of the
// application only sees the Provider interface, so the backing store can be
// swapped without touching the services.
package auth

import (
	"context"
	"errors"
)

// Stable provider failures. Services map these onto the application error
// taxonomy; anything else is passed through as an unknown provider error.
var (
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrEmailTaken         = errors.New("auth: email already in use")
	ErrRateLimited        = errors.New("auth: too many failed attempts")
)

// MethodPassword is the only sign-in method the credential provider issues.
const MethodPassword = "password"

// Subject is the authenticated identity returned by the provider.
type Subject struct {
	UID   string
	Email string
}

// Provider is the external authentication collaborator.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (Subject, error)
	SignUp(ctx context.Context, email, password string) (Subject, error)
	SignOut(ctx context.Context, uid string) error
	SendVerification(ctx context.Context, subject Subject) error
	// ListSignInMethods returns the sign-in methods registered for the
	// email, empty when the email is unknown.
	ListSignInMethods(ctx context.Context, email string) ([]string, error)
}

// Mailer delivers verification messages out of band.
type Mailer interface {
	SendVerification(ctx context.Context, email, link string) error
}
