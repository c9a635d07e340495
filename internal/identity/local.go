package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
	pkgerrors "github.com/RS76448/attendencesystem/pkg/errors"
)

// Local keeps bcrypt-hashed credentials in the accounts collection.
type Local struct {
	accounts          repository.AccountRepository
	minPasswordLength int
	cost              int
}

// NewLocal creates a Local provider.
func NewLocal(accounts repository.AccountRepository, minPasswordLength int) *Local {
	return &Local{accounts: accounts, minPasswordLength: minPasswordLength, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (p *Local) WithCost(cost int) *Local {
	p.cost = cost
	return p
}

func (p *Local) CreateAccount(ctx context.Context, email, password, _ string) (*Account, error) {
	email, err := checkNewCredentials(email, password, p.minPasswordLength)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc := &model.Account{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := p.accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailInUse
		}
		return nil, pkgerrors.Remote("create account", err)
	}
	return &Account{UID: acc.UID, Email: acc.Email}, nil
}

func (p *Local) SignIn(ctx context.Context, email, password string) (*Account, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	acc, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, pkgerrors.Remote("load account", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Account{UID: acc.UID, Email: acc.Email}, nil
}

// SignOut is a no-op; sessions live only in JWTs.
func (p *Local) SignOut(context.Context, string) error { return nil }

func (p *Local) DeleteAccount(ctx context.Context, uid string) error {
	return pkgerrors.Remote("delete account", p.accounts.Delete(ctx, uid))
}
