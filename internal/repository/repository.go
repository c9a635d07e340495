package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/pkg/timeslot"
)

// Backend-neutral errors. Every implementation maps its driver errors onto these.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Repository aggregates every collection.
type Repository struct {
	User      UserRepository
	Account   AccountRepository
	Course    CourseRepository
	Timetable TimetableRepository
	Request   RequestRepository
	// Close releases the backend connection; nil when the caller owns it.
	Close func() error
}

// NewRepository builds the PostgreSQL-backed repositories.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:      NewUserRepo(db),
		Account:   NewAccountRepo(db),
		Course:    NewCourseRepo(db),
		Timetable: NewTimetableRepo(db),
		Request:   NewRequestRepo(db),
	}
}

// ── filters ──

// UserFilter narrows List; zero fields match everything.
type UserFilter struct {
	Role     model.Role
	Course   string
	Semester string
	Offset   int
	Limit    int
}

// TimetableFilter narrows List; zero fields match everything.
type TimetableFilter struct {
	Course    string
	Semester  string
	FacultyID string
	Day       *timeslot.WeekDay
}

// RequestFilter narrows List; zero fields match everything.
type RequestFilter struct {
	StudentID string
	FacultyID string
	Course    string
	Semester  string
	Status    model.RequestStatus
}

// ── interfaces ──

// UserRepository users collection.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter UserFilter) ([]model.User, int64, error)
}

// AccountRepository credentials of the local identity provider.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	Delete(ctx context.Context, uid string) error
}

// CourseRepository courses collection.
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	GetByNameKey(ctx context.Context, key string) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string) error
}

// TimetableRepository timetables collection.
type TimetableRepository interface {
	Create(ctx context.Context, entry *model.TimetableEntry) error
	GetByID(ctx context.Context, id string) (*model.TimetableEntry, error)
	// List returns entries ordered by day, then start minute.
	List(ctx context.Context, filter TimetableFilter) ([]model.TimetableEntry, error)
	Update(ctx context.Context, entry *model.TimetableEntry) error
	Delete(ctx context.Context, id string) error
	// Upsert writes the entry keyed by (course, semester, day, time). On a hit
	// the stored ID is kept and copied back into entry.
	Upsert(ctx context.Context, entry *model.TimetableEntry) (created bool, err error)
	// ReplaceScope atomically swaps every entry of scope for entries.
	ReplaceScope(ctx context.Context, scope model.Scope, entries []model.TimetableEntry) error
}

// RequestRepository attendanceRequests collection.
type RequestRepository interface {
	Create(ctx context.Context, req *model.AttendanceRequest) error
	GetByID(ctx context.Context, id string) (*model.AttendanceRequest, error)
	// List returns requests newest first.
	List(ctx context.Context, filter RequestFilter) ([]model.AttendanceRequest, error)
	// UpdateStatus persists status, previous status and processed time, only
	// if the stored status still equals expected. Otherwise it returns
	// pkg/errors.ErrOptimisticLock.
	UpdateStatus(ctx context.Context, req *model.AttendanceRequest, expected model.RequestStatus) error
	// DeleteIfStatus removes the request only while its status equals expected.
	DeleteIfStatus(ctx context.Context, id string, expected model.RequestStatus) error
}
