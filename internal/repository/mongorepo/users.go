package mongorepo

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
)

type userRepo struct {
	col *mongo.Collection
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.col.InsertOne(ctx, user)
	return translate(err)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return findOne[model.User](ctx, r.col, bson.M{"_id": id})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, r.col, bson.M{"email": strings.ToLower(email)})
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

func (r *userRepo) List(ctx context.Context, filter repository.UserFilter) ([]model.User, int64, error) {
	f := bson.M{}
	if filter.Role != "" {
		f["role"] = filter.Role
	}
	if filter.Course != "" {
		f["course"] = filter.Course
	}
	if filter.Semester != "" {
		f["semester"] = filter.Semester
	}

	total, err := r.col.CountDocuments(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if filter.Limit > 0 {
		opts.SetSkip(int64(filter.Offset)).SetLimit(int64(filter.Limit))
	}
	users, err := findAll[model.User](ctx, r.col, f, opts)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

type accountRepo struct {
	col *mongo.Collection
}

func (r *accountRepo) Create(ctx context.Context, account *model.Account) error {
	account.Email = strings.ToLower(account.Email)
	_, err := r.col.InsertOne(ctx, account)
	return translate(err)
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return findOne[model.Account](ctx, r.col, bson.M{"email": strings.ToLower(email)})
}

func (r *accountRepo) Delete(ctx context.Context, uid string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": uid})
	return err
}
