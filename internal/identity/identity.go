// Package identity delegates account creation and password checks to an
// identity provider.
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmailInUse         = errors.New("email address is already in use")
	ErrInvalidEmail       = errors.New("email address is invalid")
	ErrWeakPassword       = errors.New("password is too weak")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
)

// Account is the provider's view of a signed-in user.
type Account struct {
	UID   string
	Email string
}

// Provider creates, authenticates and removes accounts.
type Provider interface {
	CreateAccount(ctx context.Context, email, password, displayName string) (*Account, error)
	SignIn(ctx context.Context, email, password string) (*Account, error)
	// SignOut revokes provider-side sessions of uid.
	SignOut(ctx context.Context, uid string) error
	DeleteAccount(ctx context.Context, uid string) error
}

var validate = validator.New()

// normalizeEmail lower-cases email and checks its syntax.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// checkNewCredentials validates a sign-up before it reaches the provider.
func checkNewCredentials(email, password string, minPasswordLength int) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}
	if len(password) < minPasswordLength {
		return "", ErrWeakPassword
	}
	return email, nil
}
