package firestorerepo

import (
	"context"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
)

type userRepo struct {
	col *firestore.CollectionRef
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.col.Doc(user.ID).Create(ctx, user)
	return translate(err)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return getOne[model.User](ctx, r.col.Doc(id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return first[model.User](r.col.Where("email", "==", strings.ToLower(email)).Limit(1).Documents(ctx))
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	_, err := r.col.Doc(user.ID).Set(ctx, user)
	return translate(err)
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	_, err := r.col.Doc(id).Delete(ctx, firestore.Exists)
	return translate(err)
}

func (r *userRepo) List(ctx context.Context, filter repository.UserFilter) ([]model.User, int64, error) {
	q := r.col.Query
	if filter.Role != "" {
		q = q.Where("role", "==", string(filter.Role))
	}
	if filter.Course != "" {
		q = q.Where("course", "==", filter.Course)
	}
	if filter.Semester != "" {
		q = q.Where("semester", "==", filter.Semester)
	}
	users, err := getAll[model.User](q.Documents(ctx))
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].Name < users[j].Name })

	total := int64(len(users))
	if filter.Limit > 0 {
		start := min(filter.Offset, len(users))
		end := min(start+filter.Limit, len(users))
		users = users[start:end]
	}
	return users, total, nil
}

type accountRepo struct {
	client *firestore.Client
	col    *firestore.CollectionRef
}

func (r *accountRepo) Create(ctx context.Context, account *model.Account) error {
	account.Email = strings.ToLower(account.Email)
	return translate(r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(r.col.Where("email", "==", account.Email).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(docs) > 0 {
			return repository.ErrDuplicate
		}
		return tx.Create(r.col.Doc(account.UID), account)
	}))
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return first[model.Account](r.col.Where("email", "==", strings.ToLower(email)).Limit(1).Documents(ctx))
}

func (r *accountRepo) Delete(ctx context.Context, uid string) error {
	_, err := r.col.Doc(uid).Delete(ctx)
	return translate(err)
}
