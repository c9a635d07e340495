package mongorepo

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
)

type courseRepo struct {
	col *mongo.Collection
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	_, err := r.col.InsertOne(ctx, course)
	return translate(err)
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	return findOne[model.Course](ctx, r.col, bson.M{"_id": id})
}

func (r *courseRepo) GetByNameKey(ctx context.Context, key string) (*model.Course, error) {
	return findOne[model.Course](ctx, r.col, bson.M{"nameKey": key})
}

func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	return findAll[model.Course](ctx, r.col, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": course.ID}, course)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}
