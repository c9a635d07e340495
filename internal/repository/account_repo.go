package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/RS76448/attendencesystem/internal/model"
)

type accountRepo struct {
	db *gorm.DB
}

// NewAccountRepo creates an AccountRepository.
func NewAccountRepo(db *gorm.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) Create(ctx context.Context, account *model.Account) error {
	account.Email = strings.ToLower(account.Email)
	return translate(r.db.WithContext(ctx).Create(account).Error)
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&account).Error
	if err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (r *accountRepo) Delete(ctx context.Context, uid string) error {
	return translate(r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&model.Account{}).Error)
}
