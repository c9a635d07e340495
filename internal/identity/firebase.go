package identity

import (
	"context"
	"errors"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"

	pkgerrors "github.com/RS76448/attendencesystem/pkg/errors"
)

// Firebase uses Firebase Authentication. Accounts are managed with the admin
// SDK; password sign-in goes through the Identity Toolkit API.
type Firebase struct {
	auth              *auth.Client
	toolkit           *identitytoolkit.Service
	minPasswordLength int
}

// NewFirebase creates a Firebase provider. toolkit must be built with the
// project's web API key.
func NewFirebase(client *auth.Client, toolkit *identitytoolkit.Service, minPasswordLength int) *Firebase {
	return &Firebase{auth: client, toolkit: toolkit, minPasswordLength: minPasswordLength}
}

func (p *Firebase) CreateAccount(ctx context.Context, email, password, displayName string) (*Account, error) {
	email, err := checkNewCredentials(email, password, p.minPasswordLength)
	if err != nil {
		return nil, err
	}

	params := (&auth.UserToCreate{}).Email(email).Password(password)
	if displayName != "" {
		params = params.DisplayName(displayName)
	}
	rec, err := p.auth.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, ErrEmailInUse
		}
		return nil, pkgerrors.Remote("firebase create user", err)
	}
	return &Account{UID: rec.UID, Email: rec.Email}, nil
}

func (p *Firebase) SignIn(ctx context.Context, email, password string) (*Account, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	resp, err := p.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusBadRequest {
			// EMAIL_NOT_FOUND, INVALID_PASSWORD, USER_DISABLED, INVALID_LOGIN_CREDENTIALS
			return nil, ErrInvalidCredentials
		}
		return nil, pkgerrors.Remote("firebase sign in", err)
	}
	return &Account{UID: resp.LocalId, Email: resp.Email}, nil
}

func (p *Firebase) SignOut(ctx context.Context, uid string) error {
	return pkgerrors.Remote("firebase revoke tokens", p.auth.RevokeRefreshTokens(ctx, uid))
}

func (p *Firebase) DeleteAccount(ctx context.Context, uid string) error {
	err := p.auth.DeleteUser(ctx, uid)
	if err != nil && auth.IsUserNotFound(err) {
		return nil
	}
	return pkgerrors.Remote("firebase delete user", err)
}
