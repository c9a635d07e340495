package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RS76448/attendencesystem/config"
	"github.com/RS76448/attendencesystem/internal/identity"
	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
	pkgerrors "github.com/RS76448/attendencesystem/pkg/errors"
	"github.com/RS76448/attendencesystem/pkg/jwt"
	"github.com/RS76448/attendencesystem/pkg/timeslot"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	err   error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.err != nil {
		return m.err
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, f repository.UserFilter) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if (f.Role == "" || u.Role == f.Role) &&
			(f.Course == "" || u.Course == f.Course) &&
			(f.Semester == "" || u.Semester == f.Semester) {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	total := int64(len(result))
	if f.Limit > 0 {
		start := min(f.Offset, len(result))
		result = result[start:min(start+f.Limit, len(result))]
	}
	return result, total, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, c *model.Course) error {
	for _, o := range m.courses {
		if o.NameKey == c.NameKey {
			return repository.ErrDuplicate
		}
	}
	cp := *c
	m.courses[c.ID] = &cp
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockCourseRepo) GetByNameKey(_ context.Context, key string) (*model.Course, error) {
	for _, c := range m.courses {
		if c.NameKey == key {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, c *model.Course) error {
	if _, ok := m.courses[c.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *c
	m.courses[c.ID] = &cp
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.courses, id)
	return nil
}

// ── Mock TimetableRepository ──

type mockTimetableRepo struct {
	entries    map[string]*model.TimetableEntry
	replaceErr error
}

func newMockTimetableRepo() *mockTimetableRepo {
	return &mockTimetableRepo{entries: make(map[string]*model.TimetableEntry)}
}

func (m *mockTimetableRepo) Create(_ context.Context, e *model.TimetableEntry) error {
	for _, o := range m.entries {
		if o.Key() == e.Key() {
			return repository.ErrDuplicate
		}
	}
	cp := *e
	m.entries[e.ID] = &cp
	return nil
}

func (m *mockTimetableRepo) GetByID(_ context.Context, id string) (*model.TimetableEntry, error) {
	if e, ok := m.entries[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockTimetableRepo) List(_ context.Context, f repository.TimetableFilter) ([]model.TimetableEntry, error) {
	var result []model.TimetableEntry
	for _, e := range m.entries {
		if (f.Course == "" || e.Course == f.Course) &&
			(f.Semester == "" || e.Semester == f.Semester) &&
			(f.FacultyID == "" || e.FacultyID == f.FacultyID) &&
			(f.Day == nil || e.Day == *f.Day) {
			result = append(result, *e)
		}
	}
	repository.SortEntries(result)
	return result, nil
}

func (m *mockTimetableRepo) Update(_ context.Context, e *model.TimetableEntry) error {
	if _, ok := m.entries[e.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *e
	m.entries[e.ID] = &cp
	return nil
}

func (m *mockTimetableRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.entries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *mockTimetableRepo) Upsert(_ context.Context, e *model.TimetableEntry) (bool, error) {
	for id, o := range m.entries {
		if o.Key() == e.Key() {
			e.ID = id
			cp := *e
			m.entries[id] = &cp
			return false, nil
		}
	}
	cp := *e
	m.entries[e.ID] = &cp
	return true, nil
}

func (m *mockTimetableRepo) ReplaceScope(_ context.Context, scope model.Scope, entries []model.TimetableEntry) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	for id, e := range m.entries {
		if e.Scope() == scope {
			delete(m.entries, id)
		}
	}
	for i := range entries {
		cp := entries[i]
		m.entries[cp.ID] = &cp
	}
	return nil
}

// ── Mock RequestRepository ──

type mockRequestRepo struct {
	requests map[string]*model.AttendanceRequest
}

func newMockRequestRepo() *mockRequestRepo {
	return &mockRequestRepo{requests: make(map[string]*model.AttendanceRequest)}
}

func (m *mockRequestRepo) Create(_ context.Context, r *model.AttendanceRequest) error {
	cp := *r
	m.requests[r.ID] = &cp
	return nil
}

func (m *mockRequestRepo) GetByID(_ context.Context, id string) (*model.AttendanceRequest, error) {
	if r, ok := m.requests[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockRequestRepo) List(_ context.Context, f repository.RequestFilter) ([]model.AttendanceRequest, error) {
	var result []model.AttendanceRequest
	for _, r := range m.requests {
		if (f.StudentID == "" || r.StudentID == f.StudentID) &&
			(f.FacultyID == "" || r.FacultyID == f.FacultyID) &&
			(f.Course == "" || r.Course == f.Course) &&
			(f.Semester == "" || r.Semester == f.Semester) &&
			(f.Status == "" || r.Status == f.Status) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SubmittedAt.After(result[j].SubmittedAt) })
	return result, nil
}

func (m *mockRequestRepo) UpdateStatus(_ context.Context, r *model.AttendanceRequest, expected model.RequestStatus) error {
	stored, ok := m.requests[r.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != expected {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Status = r.Status
	stored.PreviousStatus = r.PreviousStatus
	stored.ProcessedAt = r.ProcessedAt
	return nil
}

func (m *mockRequestRepo) DeleteIfStatus(_ context.Context, id string, expected model.RequestStatus) error {
	stored, ok := m.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != expected {
		return pkgerrors.ErrOptimisticLock
	}
	delete(m.requests, id)
	return nil
}

// ── Fake identity provider ──

type fakeIdentity struct {
	accounts  map[string]fakeAccount // by email
	deleted   []string
	signedOut []string
	seq       int
}

type fakeAccount struct {
	uid      string
	password string
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{accounts: make(map[string]fakeAccount)}
}

func (f *fakeIdentity) CreateAccount(_ context.Context, email, password, _ string) (*identity.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, identity.ErrInvalidEmail
	}
	if len(password) < 6 {
		return nil, identity.ErrWeakPassword
	}
	if _, ok := f.accounts[email]; ok {
		return nil, identity.ErrEmailInUse
	}
	f.seq++
	uid := "uid-" + strings.Split(email, "@")[0]
	f.accounts[email] = fakeAccount{uid: uid, password: password}
	return &identity.Account{UID: uid, Email: email}, nil
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (*identity.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	a, ok := f.accounts[email]
	if !ok || a.password != password {
		return nil, identity.ErrInvalidCredentials
	}
	return &identity.Account{UID: a.uid, Email: email}, nil
}

func (f *fakeIdentity) SignOut(_ context.Context, uid string) error {
	f.signedOut = append(f.signedOut, uid)
	return nil
}

func (f *fakeIdentity) DeleteAccount(_ context.Context, uid string) error {
	for email, a := range f.accounts {
		if a.uid == uid {
			delete(f.accounts, email)
		}
	}
	f.deleted = append(f.deleted, uid)
	return nil
}

// ── test environment ──

// testNow is Sunday 3 March 2024, 10:00 UTC. The week runs 3-9 March.
var testNow = time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	users      *mockUserRepo
	courses    *mockCourseRepo
	timetables *mockTimetableRepo
	requests   *mockRequestRepo
	idp        *fakeIdentity
	repo       *repository.Repository
	jwtMgr     *jwt.Manager
	now        time.Time
	svc        *Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:      newMockUserRepo(),
		courses:    newMockCourseRepo(),
		timetables: newMockTimetableRepo(),
		requests:   newMockRequestRepo(),
		idp:        newFakeIdentity(),
		now:        testNow,
	}
	env.repo = &repository.Repository{
		User:      env.users,
		Course:    env.courses,
		Timetable: env.timetables,
		Request:   env.requests,
	}
	env.jwtMgr = jwt.NewManager(&config.AuthConfig{
		JWTSecret:               "test-secret-key-at-least-32-bytes!!",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 7 * 24 * time.Hour,
	})
	env.svc = NewService(env.repo, env.idp, env.jwtMgr, nil, env.clock, zap.NewNop())
	return env
}

func (e *testEnv) clock() time.Time { return e.now }

func (e *testEnv) addCourse(name string, semesters ...string) *model.Course {
	c := &model.Course{ID: "course-" + strings.ToLower(name), Name: name, NameKey: model.CourseNameKey(name), Semesters: semesters}
	e.courses.courses[c.ID] = c
	return c
}

func (e *testEnv) addUser(id string, role model.Role, name string) *model.User {
	u := &model.User{ID: id, Name: name, Email: id + "@example.edu", Role: role}
	switch role {
	case model.RoleStudent:
		u.Course, u.Semester, u.PRN = "Computer Science", "Semester 4", "PRN-"+id
	case model.RoleFaculty:
		u.FacultyID = "F-" + id
	}
	e.users.users[id] = u
	return u
}

func (e *testEnv) addEntry(id string, day timeslot.WeekDay, timeText, subject, facultyID string) *model.TimetableEntry {
	entry := &model.TimetableEntry{
		ID:        id,
		Course:    "Computer Science",
		Semester:  "Semester 4",
		Day:       day,
		Time:      timeText,
		Subject:   subject,
		FacultyID: facultyID,
	}
	entry.Prepare()
	e.timetables.entries[id] = entry
	return entry
}

func admin() Caller                  { return Caller{ID: "admin-1", Role: model.RoleAdmin} }
func facultyCaller(id string) Caller { return Caller{ID: id, Role: model.RoleFaculty} }
func studentCaller(id string) Caller { return Caller{ID: id, Role: model.RoleStudent} }

func intPtr(v int) *int { return &v }
