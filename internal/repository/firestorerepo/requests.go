package firestorerepo

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
	pkgerrors "github.com/RS76448/attendencesystem/pkg/errors"
)

type requestRepo struct {
	client *firestore.Client
	col    *firestore.CollectionRef
}

func (r *requestRepo) Create(ctx context.Context, req *model.AttendanceRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	_, err := r.col.Doc(req.ID).Create(ctx, req)
	return translate(err)
}

func (r *requestRepo) GetByID(ctx context.Context, id string) (*model.AttendanceRequest, error) {
	return getOne[model.AttendanceRequest](ctx, r.col.Doc(id))
}

func (r *requestRepo) List(ctx context.Context, filter repository.RequestFilter) ([]model.AttendanceRequest, error) {
	q := r.col.Query
	if filter.StudentID != "" {
		q = q.Where("studentId", "==", filter.StudentID)
	}
	if filter.FacultyID != "" {
		q = q.Where("facultyId", "==", filter.FacultyID)
	}
	if filter.Course != "" {
		q = q.Where("course", "==", filter.Course)
	}
	if filter.Semester != "" {
		q = q.Where("semester", "==", filter.Semester)
	}
	if filter.Status != "" {
		q = q.Where("status", "==", string(filter.Status))
	}
	reqs, err := getAll[model.AttendanceRequest](q.Documents(ctx))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(reqs, func(i, j int) bool { return reqs[i].SubmittedAt.After(reqs[j].SubmittedAt) })
	return reqs, nil
}

// currentStatus reads the stored status inside tx.
func currentStatus(tx *firestore.Transaction, ref *firestore.DocumentRef) (model.RequestStatus, error) {
	snap, err := tx.Get(ref)
	if err != nil {
		return "", translate(err)
	}
	var cur model.AttendanceRequest
	if err := snap.DataTo(&cur); err != nil {
		return "", err
	}
	return cur.Status, nil
}

func (r *requestRepo) UpdateStatus(ctx context.Context, req *model.AttendanceRequest, expected model.RequestStatus) error {
	ref := r.col.Doc(req.ID)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		cur, err := currentStatus(tx, ref)
		if err != nil {
			return err
		}
		if cur != expected {
			return pkgerrors.ErrOptimisticLock
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(req.Status)},
			{Path: "previousStatus", Value: req.PreviousStatus},
			{Path: "processedAt", Value: req.ProcessedAt},
		})
	})
}

func (r *requestRepo) DeleteIfStatus(ctx context.Context, id string, expected model.RequestStatus) error {
	ref := r.col.Doc(id)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		cur, err := currentStatus(tx, ref)
		if err != nil {
			return err
		}
		if cur != expected {
			return pkgerrors.ErrOptimisticLock
		}
		return tx.Delete(ref)
	})
}
