// Package mongorepo implements the repositories on MongoDB.
package mongorepo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RS76448/attendencesystem/internal/repository"
)

// Collection names.
const (
	CollUsers      = "users"
	CollAccounts   = "accounts"
	CollCourses    = "courses"
	CollTimetables = "timetables"
	CollRequests   = "attendanceRequests"
)

// NewRepository builds the MongoDB-backed repositories. ReplaceScope needs a
// replica set, as it runs in a multi-document transaction.
func NewRepository(db *mongo.Database) *repository.Repository {
	return &repository.Repository{
		User:      &userRepo{col: db.Collection(CollUsers)},
		Account:   &accountRepo{col: db.Collection(CollAccounts)},
		Course:    &courseRepo{col: db.Collection(CollCourses)},
		Timetable: &timetableRepo{col: db.Collection(CollTimetables)},
		Request:   &requestRepo{col: db.Collection(CollRequests)},
		Close:     func() error { return db.Client().Disconnect(context.Background()) },
	}
}

// EnsureIndexes creates the unique keys the other backends enforce in schema.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		CollUsers:    {{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		CollAccounts: {{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		CollCourses:  {{Keys: bson.D{{Key: "nameKey", Value: 1}}, Options: unique}},
		CollTimetables: {
			{Keys: bson.D{{Key: "course", Value: 1}, {Key: "semester", Value: 1}, {Key: "day", Value: 1}, {Key: "time", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "facultyId", Value: 1}, {Key: "day", Value: 1}}},
		},
		CollRequests: {
			{Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "submittedAt", Value: -1}}},
			{Keys: bson.D{{Key: "facultyId", Value: 1}, {Key: "status", Value: 1}}},
		},
	}
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	}
	return err
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.M) (*T, error) {
	var v T
	if err := col.FindOne(ctx, filter).Decode(&v); err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cur, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id string) error {
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
