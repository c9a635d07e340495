package firestorerepo

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
)

type courseRepo struct {
	client *firestore.Client
	col    *firestore.CollectionRef
}

// nameTaken reports whether another course already uses key.
func (r *courseRepo) nameTaken(tx *firestore.Transaction, key, selfID string) (bool, error) {
	docs, err := tx.Documents(r.col.Where("nameKey", "==", key)).GetAll()
	if err != nil {
		return false, err
	}
	for _, d := range docs {
		if d.Ref.ID != selfID {
			return true, nil
		}
	}
	return false, nil
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	return translate(r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		taken, err := r.nameTaken(tx, course.NameKey, course.ID)
		if err != nil {
			return err
		}
		if taken {
			return repository.ErrDuplicate
		}
		return tx.Create(r.col.Doc(course.ID), course)
	}))
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	return getOne[model.Course](ctx, r.col.Doc(id))
}

func (r *courseRepo) GetByNameKey(ctx context.Context, key string) (*model.Course, error) {
	return first[model.Course](r.col.Where("nameKey", "==", key).Limit(1).Documents(ctx))
}

func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	courses, err := getAll[model.Course](r.col.Documents(ctx))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(courses, func(i, j int) bool { return courses[i].Name < courses[j].Name })
	return courses, nil
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return translate(r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		taken, err := r.nameTaken(tx, course.NameKey, course.ID)
		if err != nil {
			return err
		}
		if taken {
			return repository.ErrDuplicate
		}
		return tx.Set(r.col.Doc(course.ID), course)
	}))
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	_, err := r.col.Doc(id).Delete(ctx, firestore.Exists)
	return translate(err)
}
