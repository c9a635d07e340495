package firestorerepo

import (
	"context"
	"strconv"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
)

type timetableRepo struct {
	client *firestore.Client
	col    *firestore.CollectionRef
}

func prepare(e *model.TimetableEntry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Prepare()
}

func toEntries(docs []model.TimetableDoc) []model.TimetableEntry {
	entries := make([]model.TimetableEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, d.Entry())
	}
	return entries
}

func (r *timetableRepo) Create(ctx context.Context, entry *model.TimetableEntry) error {
	prepare(entry)
	_, err := r.col.Doc(entry.ID).Create(ctx, entry.ToDoc())
	return translate(err)
}

func (r *timetableRepo) GetByID(ctx context.Context, id string) (*model.TimetableEntry, error) {
	doc, err := getOne[model.TimetableDoc](ctx, r.col.Doc(id))
	if err != nil {
		return nil, err
	}
	e := doc.Entry()
	return &e, nil
}

func (r *timetableRepo) List(ctx context.Context, filter repository.TimetableFilter) ([]model.TimetableEntry, error) {
	q := r.col.Query
	if filter.Course != "" {
		q = q.Where("course", "==", filter.Course)
	}
	if filter.Semester != "" {
		q = q.Where("semester", "==", filter.Semester)
	}
	if filter.FacultyID != "" {
		q = q.Where("facultyId", "==", filter.FacultyID)
	}
	if filter.Day != nil {
		q = q.Where("day", "==", strconv.Itoa(int(*filter.Day)))
	}
	docs, err := getAll[model.TimetableDoc](q.Documents(ctx))
	if err != nil {
		return nil, err
	}
	entries := toEntries(docs)
	repository.SortEntries(entries)
	return entries, nil
}

func (r *timetableRepo) Update(ctx context.Context, entry *model.TimetableEntry) error {
	entry.Prepare()
	_, err := r.col.Doc(entry.ID).Set(ctx, entry.ToDoc())
	return translate(err)
}

func (r *timetableRepo) Delete(ctx context.Context, id string) error {
	_, err := r.col.Doc(id).Delete(ctx, firestore.Exists)
	return translate(err)
}

func (r *timetableRepo) keyQuery(e *model.TimetableEntry) firestore.Query {
	return r.col.
		Where("course", "==", e.Course).
		Where("semester", "==", e.Semester).
		Where("day", "==", strconv.Itoa(int(e.Day))).
		Where("time", "==", e.Time).
		Limit(1)
}

func (r *timetableRepo) Upsert(ctx context.Context, entry *model.TimetableEntry) (bool, error) {
	var created bool
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		created = false
		docs, err := tx.Documents(r.keyQuery(entry)).GetAll()
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			created = true
			prepare(entry)
			return tx.Create(r.col.Doc(entry.ID), entry.ToDoc())
		}

		var existing model.TimetableDoc
		if err := docs[0].DataTo(&existing); err != nil {
			return err
		}
		entry.ID = docs[0].Ref.ID
		entry.CreatedAt = existing.CreatedAt
		entry.Prepare()
		return tx.Set(docs[0].Ref, entry.ToDoc())
	})
	return created, translate(err)
}

// ReplaceScope deletes and rewrites the scope inside one transaction. A
// document kept under the same ID is overwritten rather than deleted, since a
// transaction may write each document only once.
func (r *timetableRepo) ReplaceScope(ctx context.Context, scope model.Scope, entries []model.TimetableEntry) error {
	for i := range entries {
		prepare(&entries[i])
	}
	keep := make(map[string]bool, len(entries))
	for _, e := range entries {
		keep[e.ID] = true
	}

	return translate(r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(r.col.
			Where("course", "==", scope.Course).
			Where("semester", "==", scope.Semester)).GetAll()
		if err != nil {
			return err
		}
		for _, d := range docs {
			if keep[d.Ref.ID] {
				continue
			}
			if err := tx.Delete(d.Ref); err != nil {
				return err
			}
		}
		for i := range entries {
			if err := tx.Set(r.col.Doc(entries[i].ID), entries[i].ToDoc()); err != nil {
				return err
			}
		}
		return nil
	}))
}
