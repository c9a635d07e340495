package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/RS76448/attendencesystem/internal/dto"
	"github.com/RS76448/attendencesystem/internal/identity"
	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
	pkgerrors "github.com/RS76448/attendencesystem/pkg/errors"
)

// ── user module errors ──

var (
	ErrUserSelfDelete = errors.New("you cannot delete your own account")
)

// UserService admin user management.
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Get(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, id, callerID string) error
	// ListFaculty lists the approvers a student may address a request to.
	ListFaculty(ctx context.Context) ([]dto.FacultyBrief, error)
	// EnsureAdmin creates an administrator with the given credentials unless
	// one already exists. It reports whether an account was created.
	EnsureAdmin(ctx context.Context, email, password string) (bool, error)
}

type userService struct {
	repo   *repository.Repository
	idp    identity.Provider
	now    Clock
	logger *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(repo *repository.Repository, idp identity.Provider, clock Clock, logger *zap.Logger) UserService {
	return &userService{repo: repo, idp: idp, now: clock, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	user := &model.User{
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		Role:      model.Role(req.Role),
		Course:    strings.TrimSpace(req.Course),
		Semester:  strings.TrimSpace(req.Semester),
		PRN:       strings.TrimSpace(req.PRN),
		FacultyID: strings.TrimSpace(req.FacultyID),
	}
	if err := s.checkRoleFields(ctx, user); err != nil {
		return nil, err
	}

	if err := createProfile(ctx, s.repo, s.idp, s.now, s.logger, user, req.Password); err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	resp := toUserResponse(user)
	return &resp, nil
}

// checkRoleFields enforces the fields each role needs and clears the rest.
func (s *userService) checkRoleFields(ctx context.Context, user *model.User) error {
	switch user.Role {
	case model.RoleStudent:
		if user.Course == "" {
			return pkgerrors.Invalid("course", "course is required for students")
		}
		if user.Semester == "" {
			return pkgerrors.Invalid("semester", "semester is required for students")
		}
		if user.PRN == "" {
			return pkgerrors.Invalid("prn", "PRN is required for students")
		}
		course, err := resolveEnrolment(ctx, s.repo, s.logger, user.Course, user.Semester)
		if err != nil {
			return err
		}
		user.Course = course
		user.FacultyID = ""
	case model.RoleFaculty:
		if user.FacultyID == "" {
			return pkgerrors.Invalid("faculty_id", "faculty identifier is required for faculty")
		}
		user.Course, user.Semester, user.PRN = "", "", ""
	case model.RoleAdmin:
		user.Course, user.Semester, user.PRN, user.FacultyID = "", "", "", ""
	default:
		return pkgerrors.Invalid("role", "unknown role %q", user.Role)
	}
	return nil
}

// ────────────────────── Get / List ──────────────────────

func (s *userService) Get(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := lookupUser(ctx, s.repo, s.logger, id, ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, repository.UserFilter{
		Role:     model.Role(req.Role),
		Course:   req.Course,
		Semester: req.Semester,
		Offset:   req.GetOffset(),
		Limit:    req.GetPageSize(),
	})
	if err != nil {
		return nil, 0, storeFailure(s.logger, "list users", err)
	}

	list := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		list = append(list, toUserResponse(&users[i]))
	}
	return list, total, nil
}

func (s *userService) ListFaculty(ctx context.Context) ([]dto.FacultyBrief, error) {
	users, _, err := s.repo.User.List(ctx, repository.UserFilter{Role: model.RoleFaculty})
	if err != nil {
		return nil, storeFailure(s.logger, "list faculty", err)
	}
	list := make([]dto.FacultyBrief, 0, len(users))
	for _, u := range users {
		list = append(list, dto.FacultyBrief{ID: u.ID, Name: u.Name, FacultyID: u.FacultyID})
	}
	return list, nil
}

// ────────────────────── EnsureAdmin ──────────────────────

func (s *userService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, nil
	}

	_, total, err := s.repo.User.List(ctx, repository.UserFilter{Role: model.RoleAdmin, Limit: 1})
	if err != nil {
		return false, storeFailure(s.logger, "list admins", err)
	}
	if total > 0 {
		return false, nil
	}

	user := &model.User{Name: "Administrator", Email: email, Role: model.RoleAdmin}
	if err := createProfile(ctx, s.repo, s.idp, s.now, s.logger, user, password); err != nil {
		return false, err
	}
	s.logger.Info("bootstrap admin created", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return true, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := lookupUser(ctx, s.repo, s.logger, id, ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Course != nil {
		user.Course = strings.TrimSpace(*req.Course)
	}
	if req.Semester != nil {
		user.Semester = strings.TrimSpace(*req.Semester)
	}
	if req.PRN != nil {
		user.PRN = strings.TrimSpace(*req.PRN)
	}
	if req.FacultyID != nil {
		user.FacultyID = strings.TrimSpace(*req.FacultyID)
	}
	if err := s.checkRoleFields(ctx, user); err != nil {
		return nil, err
	}

	user.Touch(s.now().UTC())
	if err := s.repo.User.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeFailure(s.logger, "update user", err, zap.String("user_id", id))
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id, callerID string) error {
	if id == callerID {
		return ErrUserSelfDelete
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return storeFailure(s.logger, "delete user", err, zap.String("user_id", id))
	}

	// The profile is gone either way; a dangling account can no longer sign in.
	if err := s.idp.DeleteAccount(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("delete identity account failed", zap.String("uid", id), zap.Error(err))
	}

	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

// ── conversion ──

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Course:    u.Course,
		Semester:  u.Semester,
		PRN:       u.PRN,
		FacultyID: u.FacultyID,
		CreatedAt: u.CreatedAt.Format(dto.TimeLayout),
	}
}
