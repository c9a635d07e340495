package mongorepo

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
)

type timetableRepo struct {
	col *mongo.Collection
}

func prepare(e *model.TimetableEntry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Prepare()
}

func (r *timetableRepo) Create(ctx context.Context, entry *model.TimetableEntry) error {
	prepare(entry)
	_, err := r.col.InsertOne(ctx, entry.ToDoc())
	return translate(err)
}

func (r *timetableRepo) GetByID(ctx context.Context, id string) (*model.TimetableEntry, error) {
	doc, err := findOne[model.TimetableDoc](ctx, r.col, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	e := doc.Entry()
	return &e, nil
}

func (r *timetableRepo) List(ctx context.Context, filter repository.TimetableFilter) ([]model.TimetableEntry, error) {
	f := bson.M{}
	if filter.Course != "" {
		f["course"] = filter.Course
	}
	if filter.Semester != "" {
		f["semester"] = filter.Semester
	}
	if filter.FacultyID != "" {
		f["facultyId"] = filter.FacultyID
	}
	if filter.Day != nil {
		f["day"] = strconv.Itoa(int(*filter.Day))
	}
	docs, err := findAll[model.TimetableDoc](ctx, r.col, f)
	if err != nil {
		return nil, err
	}
	entries := make([]model.TimetableEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, d.Entry())
	}
	repository.SortEntries(entries)
	return entries, nil
}

func (r *timetableRepo) Update(ctx context.Context, entry *model.TimetableEntry) error {
	entry.Prepare()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry.ToDoc())
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *timetableRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

func (r *timetableRepo) Upsert(ctx context.Context, entry *model.TimetableEntry) (bool, error) {
	entry.Prepare()
	doc := entry.ToDoc()
	newID := uuid.NewString()
	now := time.Now().UTC()

	key := bson.M{"course": doc.Course, "semester": doc.Semester, "day": doc.Day, "time": doc.Time}
	update := bson.M{
		"$set": bson.M{
			"date":        doc.Date,
			"startMinute": doc.StartMinute,
			"subject":     doc.Subject,
			"facultyId":   doc.FacultyID,
			"facultyName": doc.FacultyName,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{"_id": newID, "createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored model.TimetableDoc
	if err := r.col.FindOneAndUpdate(ctx, key, update, opts).Decode(&stored); err != nil {
		return false, translate(err)
	}
	*entry = stored.Entry()
	return stored.ID == newID, nil
}

func (r *timetableRepo) ReplaceScope(ctx context.Context, scope model.Scope, entries []model.TimetableEntry) error {
	docs := make([]interface{}, 0, len(entries))
	for i := range entries {
		prepare(&entries[i])
		docs = append(docs, entries[i].ToDoc())
	}

	sess, err := r.col.Database().Client().StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.col.DeleteMany(sc, bson.M{"course": scope.Course, "semester": scope.Semester}); err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, nil
		}
		_, err := r.col.InsertMany(sc, docs)
		return nil, err
	})
	return translate(err)
}
