//go:build integration

package mongorepo_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
	"github.com/RS76448/attendencesystem/internal/repository/mongorepo"
	pkgerrors "github.com/RS76448/attendencesystem/pkg/errors"
	"github.com/RS76448/attendencesystem/pkg/timeslot"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var (
	testDB   *mongo.Database
	testRepo *repository.Repository
)

// TestMain needs a replica set, since ReplaceScope runs in a transaction, e.g.
// TEST_MONGO_URI="mongodb://localhost:27017/?replicaSet=rs0".
func TestMain(m *testing.M) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		fmt.Fprintln(os.Stderr, "TEST_MONGO_URI not set, skipping mongo integration tests")
		os.Exit(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err == nil {
		err = client.Ping(ctx, nil)
	}
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect test mongo: %v\n", err)
		os.Exit(1)
	}

	testDB = client.Database(fmt.Sprintf("absence_desk_test_%d", time.Now().UnixNano()))
	if err := mongorepo.EnsureIndexes(context.Background(), testDB); err != nil {
		fmt.Fprintf(os.Stderr, "ensure indexes: %v\n", err)
		os.Exit(1)
	}
	testRepo = mongorepo.NewRepository(testDB)

	code := m.Run()
	_ = testDB.Drop(context.Background())
	_ = client.Disconnect(context.Background())
	os.Exit(code)
}

func uniqueScope() model.Scope {
	return model.Scope{Course: fmt.Sprintf("Course-%d", time.Now().UnixNano()), Semester: "Semester 1"}
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
	scope := uniqueScope()

	e := entry(scope, timeslot.Wednesday, "09:00 - 10:00", "Mathematics")
	if err := testRepo.Timetable.Create(ctx, e); err != nil {
		t.Fatalf("create: %v", err)
	}

	var raw bson.M
	if err := testDB.Collection(mongorepo.CollTimetables).FindOne(ctx, bson.M{"_id": e.ID}).Decode(&raw); err != nil {
		t.Fatalf("get raw document: %v", err)
	}
	if day, ok := raw["day"].(string); !ok || day != "3" {
		t.Errorf("day = %#v, want the string \"3\"", raw["day"])
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

func TestTimetableRepo_UniqueSlot(t *testing.T) {
	ctx := context.Background()
	scope := uniqueScope()

	if err := testRepo.Timetable.Create(ctx, entry(scope, timeslot.Monday, "09:00 - 10:00", "Mathematics")); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := testRepo.Timetable.Create(ctx, entry(scope, timeslot.Monday, "09:00 - 10:00", "Physics"))
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestTimetableRepo_UpsertKeepsID(t *testing.T) {
	ctx := context.Background()
	scope := uniqueScope()

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

func TestTimetableRepo_ReplaceScope(t *testing.T) {
	ctx := context.Background()
	scope := uniqueScope()
	other := uniqueScope()

	stale := entry(scope, timeslot.Monday, "09:00 - 10:00", "Mathematics")
	outside := entry(other, timeslot.Monday, "09:00 - 10:00", "Biology")
	for _, e := range []*model.TimetableEntry{stale, outside} {
		if err := testRepo.Timetable.Create(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// two entries on one key break the unique index and roll the swap back
	dup := []model.TimetableEntry{
		*entry(scope, timeslot.Friday, "09:00 - 10:00", "Physics"),
		*entry(scope, timeslot.Friday, "09:00 - 10:00", "Chemistry"),
	}
	if err := testRepo.Timetable.ReplaceScope(ctx, scope, dup); err == nil {
		t.Fatal("expected the replace to fail")
	}
	if list := listScope(t, scope); len(list) != 1 || list[0].ID != stale.ID {
		t.Fatalf("expected the original timetable to survive, got %+v", list)
	}

	ok := []model.TimetableEntry{
		*entry(scope, timeslot.Friday, "09:00 - 10:00", "Physics"),
		*entry(scope, timeslot.Friday, "10:00 - 11:00", "Chemistry"),
	}
	if err := testRepo.Timetable.ReplaceScope(ctx, scope, ok); err != nil {
		t.Fatalf("replace: %v", err)
	}
	list := listScope(t, scope)
	if len(list) != 2 || list[0].Subject != "Physics" || list[1].Subject != "Chemistry" {
		t.Errorf("unexpected timetable after replace: %+v", list)
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

	const contenders = 8
	errs := make([]error, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		status := model.StatusApproved
		if i%2 == 1 {
			status = model.StatusRejected
		}
		wg.Add(1)
		go func(i int, status model.RequestStatus) {
			defer wg.Done()
			errs[i] = testRepo.Request.UpdateStatus(ctx, decided(req, status), model.StatusPending)
		}(i, status)
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
		t.Errorf("exactly one decision should win, got %d", won)
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
