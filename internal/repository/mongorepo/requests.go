package mongorepo

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
	pkgerrors "github.com/RS76448/attendencesystem/pkg/errors"
)

type requestRepo struct {
	col *mongo.Collection
}

func (r *requestRepo) Create(ctx context.Context, req *model.AttendanceRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	_, err := r.col.InsertOne(ctx, req)
	return translate(err)
}

func (r *requestRepo) GetByID(ctx context.Context, id string) (*model.AttendanceRequest, error) {
	return findOne[model.AttendanceRequest](ctx, r.col, bson.M{"_id": id})
}

func (r *requestRepo) List(ctx context.Context, filter repository.RequestFilter) ([]model.AttendanceRequest, error) {
	f := bson.M{}
	if filter.StudentID != "" {
		f["studentId"] = filter.StudentID
	}
	if filter.FacultyID != "" {
		f["facultyId"] = filter.FacultyID
	}
	if filter.Course != "" {
		f["course"] = filter.Course
	}
	if filter.Semester != "" {
		f["semester"] = filter.Semester
	}
	if filter.Status != "" {
		f["status"] = filter.Status
	}
	return findAll[model.AttendanceRequest](ctx, r.col, f, options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}}))
}

func (r *requestRepo) missingOrStale(ctx context.Context, id string) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return pkgerrors.ErrOptimisticLock
}

func (r *requestRepo) UpdateStatus(ctx context.Context, req *model.AttendanceRequest, expected model.RequestStatus) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": req.ID, "status": expected},
		bson.M{"$set": bson.M{
			"status":         req.Status,
			"previousStatus": req.PreviousStatus,
			"processedAt":    req.ProcessedAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.missingOrStale(ctx, req.ID)
	}
	return nil
}

func (r *requestRepo) DeleteIfStatus(ctx context.Context, id string, expected model.RequestStatus) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "status": expected})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return r.missingOrStale(ctx, id)
	}
	return nil
}
