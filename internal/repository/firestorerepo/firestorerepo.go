// Package firestorerepo implements the repositories on Google Cloud Firestore.
package firestorerepo

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

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

// NewRepository builds the Firestore-backed repositories.
func NewRepository(client *firestore.Client) *repository.Repository {
	return &repository.Repository{
		User:      &userRepo{col: client.Collection(CollUsers)},
		Account:   &accountRepo{client: client, col: client.Collection(CollAccounts)},
		Course:    &courseRepo{client: client, col: client.Collection(CollCourses)},
		Timetable: &timetableRepo{client: client, col: client.Collection(CollTimetables)},
		Request:   &requestRepo{client: client, col: client.Collection(CollRequests)},
		Close:     client.Close,
	}
}

func translate(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return repository.ErrNotFound
	case codes.AlreadyExists:
		return repository.ErrDuplicate
	}
	return err
}

// getAll drains iter, decoding every document into T.
func getAll[T any](iter *firestore.DocumentIterator) ([]T, error) {
	defer iter.Stop()
	var out []T
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func getOne[T any](ctx context.Context, ref *firestore.DocumentRef) (*T, error) {
	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, translate(err)
	}
	var v T
	if err := snap.DataTo(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

func first[T any](iter *firestore.DocumentIterator) (*T, error) {
	all, err := getAll[T](iter)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, repository.ErrNotFound
	}
	return &all[0], nil
}
