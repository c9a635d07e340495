package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/RS76448/attendencesystem/internal/identity"
	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
	pkgerrors "github.com/RS76448/attendencesystem/pkg/errors"
	"github.com/RS76448/attendencesystem/pkg/jwt"
	"github.com/RS76448/attendencesystem/pkg/redis"
)

// Service aggregates every service.
type Service struct {
	Auth       AuthService
	User       UserService
	Course     CourseService
	Timetable  TimetableService
	Week       WeekService
	Attendance AttendanceService
	Export     ExportService
}

// Clock returns the current wall-clock time in the desk's timezone.
type Clock func() time.Time

// SystemClock reads time.Now in loc.
func SystemClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

// Caller is the authenticated user an operation runs for.
type Caller struct {
	ID   string
	Role model.Role
}

// IsAdmin reports whether the caller is an administrator.
func (c Caller) IsAdmin() bool { return c.Role == model.RoleAdmin }

// NewService wires the services. rdb may be nil, in which case logout and
// refresh-token rotation skip the blacklist.
func NewService(
	repo *repository.Repository,
	idp identity.Provider,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	clock Clock,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(repo, idp, jwtMgr, rdb, clock, logger),
		User:       NewUserService(repo, idp, clock, logger),
		Course:     NewCourseService(repo, clock, logger),
		Timetable:  NewTimetableService(repo, clock, logger),
		Week:       NewWeekService(repo, clock, logger),
		Attendance: NewAttendanceService(repo, clock, logger),
		Export:     NewExportService(repo, clock, logger),
	}
}

// storeFailure logs a failed repository call and wraps it as a remote failure.
func storeFailure(logger *zap.Logger, op string, err error, fields ...zap.Field) error {
	logger.Error(op+" failed", append(fields, zap.Error(err))...)
	if errors.Is(err, pkgerrors.ErrRemoteFailure) {
		return err
	}
	return pkgerrors.Remote(op, err)
}

// lookupUser loads a user, mapping a miss onto notFound.
func lookupUser(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string, notFound error) (*model.User, error) {
	user, err := repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound
		}
		return nil, storeFailure(logger, "load user", err, zap.String("user_id", id))
	}
	return user, nil
}
