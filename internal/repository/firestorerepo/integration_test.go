//go:build integration

package firestorerepo_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
	"github.com/RS76448/attendencesystem/internal/repository/firestorerepo"
	pkgerrors "github.com/RS76448/attendencesystem/pkg/errors"
	"github.com/RS76448/attendencesystem/pkg/timeslot"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var (
	testClient *firestore.Client
	testRepo   *repository.Repository
)

// TestMain runs against the Firestore emulator only. Start it with
// `gcloud emulators firestore start` and export FIRESTORE_EMULATOR_HOST.
func TestMain(m *testing.M) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		fmt.Fprintln(os.Stderr, "FIRESTORE_EMULATOR_HOST not set, skipping firestore integration tests")
		os.Exit(0)
	}
	project := os.Getenv("FIRESTORE_PROJECT_ID")
	if project == "" {
		project = "absence-desk-test"
	}

	client, err := firestore.NewClient(context.Background(), project)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect firestore emulator: %v\n", err)
		os.Exit(1)
	}
	testClient = client
	testRepo = firestorerepo.NewRepository(client)

	code := m.Run()
	client.Close()
	os.Exit(code)
}

func uniqueScope(t *testing.T) model.Scope {
	t.Helper()
	scope := model.Scope{Course: fmt.Sprintf("Course-%d", time.Now().UnixNano()), Semester: "Semester 1"}
	t.Cleanup(func() {
		_ = testRepo.Timetable.ReplaceScope(context.Background(), scope, nil)
	})
	return scope
}

func entry(scope model.Scope, day timeslot.WeekDay, slot, subject string) *model.TimetableEntry {
	return &model.TimetableEntry{
		Course:    scope.Course,
		Semester:  scope.Semester,
		Day:       day,
		Time:      slot,
		Subject:   subject,
		FacultyID: "f1",
	}
}

func listScope(t *testing.T, scope model.Scope) []model.TimetableEntry {
	t.Helper()
	list, err := testRepo.Timetable.List(context.Background(), repository.TimetableFilter{Course: scope.Course, Semester: scope.Semester})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	return list
}

// ═══════════════════════════════════════════════════════════
// Timetable
// ═══════════════════════════════════════════════════════════

func TestTimetableRepo_DayStoredAsText(t *testing.T) {
	ctx := context.Background()
	scope := uniqueScope(t)

	e := entry(scope, timeslot.Wednesday, "09:00 - 10:00", "Mathematics")
	if err := testRepo.Timetable.Create(ctx, e); err != nil {
		t.Fatalf("create: %v", err)
	}

	snap, err := testClient.Collection(firestorerepo.CollTimetables).Doc(e.ID).Get(ctx)
	if err != nil {
		t.Fatalf("get raw document: %v", err)
	}
	if day, ok := snap.Data()["day"].(string); !ok || day != "3" {
		t.Errorf("day = %#v, want the string \"3\"", snap.Data()["day"])
	}

	day := timeslot.Wednesday
	list, err := testRepo.Timetable.List(ctx, repository.TimetableFilter{Course: scope.Course, Day: &day})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Day != timeslot.Wednesday || list[0].StartMinute != 540 {
		t.Errorf("day filter round trip: %+v", list)
	}
}

func TestTimetableRepo_CreateTwiceIsDuplicate(t *testing.T) {
	ctx := context.Background()
	scope := uniqueScope(t)

	e := entry(scope, timeslot.Monday, "09:00 - 10:00", "Mathematics")
	if err := testRepo.Timetable.Create(ctx, e); err != nil {
		t.Fatalf("create: %v", err)
	}
	again := *e
	if err := testRepo.Timetable.Create(ctx, &again); !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for an existing document id, got %v", err)
	}
}

func TestTimetableRepo_UpsertKeepsID(t *testing.T) {
	ctx := context.Background()
	scope := uniqueScope(t)

	first := entry(scope, timeslot.Monday, "09:00 - 10:00", "Mathematics")
	created, err := testRepo.Timetable.Upsert(ctx, first)
	if err != nil || !created {
		t.Fatalf("first upsert: created=%v err=%v", created, err)
	}

	second := entry(scope, timeslot.Monday, "09:00 - 10:00", "Applied Mathematics")
	created, err = testRepo.Timetable.Upsert(ctx, second)
	if err != nil || created {
		t.Fatalf("second upsert: created=%v err=%v", created, err)
	}
	if second.ID != first.ID {
		t.Errorf("expected ID %s to be kept, got %s", first.ID, second.ID)
	}

	list := listScope(t, scope)
	if len(list) != 1 || list[0].Subject != "Applied Mathematics" {
		t.Errorf("expected one updated entry, got %+v", list)
	}
}

func TestTimetableRepo_ReplaceScopeRemovesStale(t *testing.T) {
	ctx := context.Background()
	scope := uniqueScope(t)
	other := uniqueScope(t)

	kept := entry(scope, timeslot.Monday, "09:00 - 10:00", "Mathematics")
	stale := entry(scope, timeslot.Tuesday, "09:00 - 10:00", "Physics")
	outside := entry(other, timeslot.Tuesday, "09:00 - 10:00", "Biology")
	for _, e := range []*model.TimetableEntry{kept, stale, outside} {
		if err := testRepo.Timetable.Create(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// the kept document is rewritten under its own id in the same transaction
	rewritten := *kept
	rewritten.Subject = "Linear Algebra"
	replacement := []model.TimetableEntry{
		rewritten,
		*entry(scope, timeslot.Friday, "10:00 - 11:00", "Chemistry"),
	}
	if err := testRepo.Timetable.ReplaceScope(ctx, scope, replacement); err != nil {
		t.Fatalf("replace: %v", err)
	}

	list := listScope(t, scope)
	if len(list) != 2 {
		t.Fatalf("expected 2 entries after replace, got %+v", list)
	}
	if list[0].ID != kept.ID || list[0].Subject != "Linear Algebra" {
		t.Errorf("kept entry = %+v", list[0])
	}
	if list[1].Subject != "Chemistry" {
		t.Errorf("new entry = %+v", list[1])
	}
	if _, err := testRepo.Timetable.GetByID(ctx, stale.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("stale entry should be gone, got %v", err)
	}
	if got := listScope(t, other); len(got) != 1 {
		t.Errorf("other scope must be untouched, got %+v", got)
	}
}

// ═══════════════════════════════════════════════════════════
// Requests
// ═══════════════════════════════════════════════════════════

func newRequest(t *testing.T) *model.AttendanceRequest {
	t.Helper()
	req := &model.AttendanceRequest{
		StudentID: fmt.Sprintf("s-%d", time.Now().UnixNano()),
		FacultyID: "f1",
		Reason:    "medical appointment",
		ClassDetails: []model.ClassDetail{
			{Subject: "Mathematics", Date: "2024-03-04", Time: "09:00 - 10:00", Day: timeslot.Monday},
		},
		Status:      model.StatusPending,
		SubmittedAt: time.Now().UTC(),
	}
	if err := testRepo.Request.Create(context.Background(), req); err != nil {
		t.Fatalf("create request: %v", err)
	}
	t.Cleanup(func() {
		_, _ = testClient.Collection(firestorerepo.CollRequests).Doc(req.ID).Delete(context.Background())
	})
	return req
}

func decided(req *model.AttendanceRequest, status model.RequestStatus) *model.AttendanceRequest {
	cp := *req
	cp.Apply(model.StatusState{Current: status, Undo: &model.UndoToken{Prior: model.StatusPending}}, time.Now().UTC())
	return &cp
}

func TestRequestRepo_StaleDecisionLoses(t *testing.T) {
	ctx := context.Background()
	req := newRequest(t)

	if err := testRepo.Request.UpdateStatus(ctx, decided(req, model.StatusApproved), model.StatusPending); err != nil {
		t.Fatalf("approve: %v", err)
	}
	err := testRepo.Request.UpdateStatus(ctx, decided(req, model.StatusRejected), model.StatusPending)
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("expected ErrOptimisticLock, got %v", err)
	}

	stored, err := testRepo.Request.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != model.StatusApproved || stored.PreviousStatus == nil || *stored.PreviousStatus != model.StatusPending {
		t.Errorf("stored = status %s previous %v", stored.Status, stored.PreviousStatus)
	}
	if len(stored.ClassDetails) != 1 || stored.ClassDetails[0].Day != timeslot.Monday {
		t.Errorf("class details did not round-trip: %+v", stored.ClassDetails)
	}
}

func TestRequestRepo_ConcurrentDecisions(t *testing.T) {
	ctx := context.Background()
	req := newRequest(t)

	statuses := []model.RequestStatus{model.StatusApproved, model.StatusRejected}
	errs := make([]error, len(statuses))
	var wg sync.WaitGroup
	for i, st := range statuses {
		wg.Add(1)
		go func(i int, st model.RequestStatus) {
			defer wg.Done()
			errs[i] = testRepo.Request.UpdateStatus(ctx, decided(req, st), model.StatusPending)
		}(i, st)
	}
	wg.Wait()

	var won int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Errorf("exactly one decision should win, got %d (%v)", won, errs)
	}
}

func TestRequestRepo_DeleteIfStatus(t *testing.T) {
	ctx := context.Background()
	req := newRequest(t)

	if err := testRepo.Request.DeleteIfStatus(ctx, req.ID, model.StatusApproved); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("expected ErrOptimisticLock, got %v", err)
	}
	if err := testRepo.Request.DeleteIfStatus(ctx, req.ID, model.StatusPending); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := testRepo.Request.DeleteIfStatus(ctx, req.ID, model.StatusPending); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
