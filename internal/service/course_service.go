package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RS76448/attendencesystem/internal/dto"
	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
	pkgerrors "github.com/RS76448/attendencesystem/pkg/errors"
)

// ── course module errors ──

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrCourseNameTaken = errors.New("a course with this name already exists")
)

// CourseService courses and their ordered semester labels.
type CourseService interface {
	Create(ctx context.Context, req *dto.CourseRequest) (*dto.CourseResponse, error)
	Get(ctx context.Context, id string) (*dto.CourseResponse, error)
	List(ctx context.Context) ([]dto.CourseResponse, error)
	Update(ctx context.Context, id string, req *dto.CourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id string) error
}

type courseService struct {
	repo   *repository.Repository
	now    Clock
	logger *zap.Logger
}

// NewCourseService creates a CourseService.
func NewCourseService(repo *repository.Repository, clock Clock, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, now: clock, logger: logger}
}

func (s *courseService) Create(ctx context.Context, req *dto.CourseRequest) (*dto.CourseResponse, error) {
	name, semesters, err := normalizeCourse(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	course := &model.Course{
		ID:        uuid.NewString(),
		Name:      name,
		NameKey:   model.CourseNameKey(name),
		Semesters: semesters,
	}
	course.Touch(s.now().UTC())
	if err := s.repo.Course.Create(ctx, course); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCourseNameTaken
		}
		return nil, storeFailure(s.logger, "create course", err, zap.String("name", name))
	}

	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("name", name))
	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *courseService) Get(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		return nil, storeFailure(s.logger, "list courses", err)
	}
	list := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		list = append(list, toCourseResponse(&courses[i]))
	}
	return list, nil
}

func (s *courseService) Update(ctx context.Context, id string, req *dto.CourseRequest) (*dto.CourseResponse, error) {
	course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	name, semesters, err := normalizeCourse(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	course.Name = name
	course.NameKey = model.CourseNameKey(name)
	course.Semesters = semesters
	course.Touch(s.now().UTC())
	if err := s.repo.Course.Update(ctx, course); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrCourseNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrCourseNameTaken
		}
		return nil, storeFailure(s.logger, "update course", err, zap.String("course_id", id))
	}

	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *courseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Course.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCourseNotFound
		}
		return storeFailure(s.logger, "delete course", err, zap.String("course_id", id))
	}
	s.logger.Info("course deleted", zap.String("course_id", id))
	return nil
}

func (s *courseService) load(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, storeFailure(s.logger, "load course", err, zap.String("course_id", id))
	}
	return course, nil
}

// checkNameFree fails when another course than selfID already uses name, ignoring case.
func (s *courseService) checkNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.Course.GetByNameKey(ctx, model.CourseNameKey(name))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return storeFailure(s.logger, "load course", err, zap.String("name", name))
	case existing.ID != selfID:
		return ErrCourseNameTaken
	}
	return nil
}

// normalizeCourse trims the name and semester labels, keeping label order.
func normalizeCourse(req *dto.CourseRequest) (string, []string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", nil, pkgerrors.Invalid("name", "course name is required")
	}
	seen := make(map[string]bool, len(req.Semesters))
	semesters := make([]string, 0, len(req.Semesters))
	for _, label := range req.Semesters {
		label = strings.TrimSpace(label)
		if label == "" {
			return "", nil, pkgerrors.Invalid("semesters", "semester labels cannot be blank")
		}
		if seen[label] {
			return "", nil, pkgerrors.Invalid("semesters", "semester %q is listed twice", label)
		}
		seen[label] = true
		semesters = append(semesters, label)
	}
	if len(semesters) == 0 {
		return "", nil, pkgerrors.Invalid("semesters", "at least one semester is required")
	}
	return name, semesters, nil
}

func toCourseResponse(c *model.Course) dto.CourseResponse {
	semesters := append([]string{}, c.Semesters...)
	return dto.CourseResponse{
		ID:        c.ID,
		Name:      c.Name,
		Semesters: semesters,
		CreatedAt: c.CreatedAt.Format(dto.TimeLayout),
		UpdatedAt: c.UpdatedAt.Format(dto.TimeLayout),
	}
}
