package service

import (
	"context"
	"errors"
	"testing"

	"github.com/RS76448/attendencesystem/internal/dto"
	pkgerrors "github.com/RS76448/attendencesystem/pkg/errors"
)

func TestCourseLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Course.Create(ctx, &dto.CourseRequest{Name: " Computer Science ", Semesters: []string{"Semester 2", "Semester 1"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Name != "Computer Science" || created.Semesters[0] != "Semester 2" {
		t.Errorf("created = %+v, want trimmed name and original order", created)
	}

	if _, err := env.svc.Course.Create(ctx, &dto.CourseRequest{Name: "COMPUTER SCIENCE", Semesters: []string{"S1"}}); !errors.Is(err, ErrCourseNameTaken) {
		t.Errorf("case-insensitive duplicate: expected ErrCourseNameTaken, got %v", err)
	}

	other, err := env.svc.Course.Create(ctx, &dto.CourseRequest{Name: "Mechanical", Semesters: []string{"S1"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := env.svc.Course.Update(ctx, other.ID, &dto.CourseRequest{Name: "computer science", Semesters: []string{"S1"}}); !errors.Is(err, ErrCourseNameTaken) {
		t.Errorf("rename onto existing: expected ErrCourseNameTaken, got %v", err)
	}
	updated, err := env.svc.Course.Update(ctx, created.ID, &dto.CourseRequest{Name: "computer science", Semesters: []string{"Semester 1", "Semester 2", "Semester 3"}})
	if err != nil {
		t.Fatalf("Update keeping own name: %v", err)
	}
	if updated.Name != "computer science" || len(updated.Semesters) != 3 {
		t.Errorf("updated = %+v", updated)
	}

	list, err := env.svc.Course.List(ctx)
	if err != nil || len(list) != 2 {
		t.Errorf("List = %d (%v), want 2", len(list), err)
	}

	if err := env.svc.Course.Delete(ctx, other.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := env.svc.Course.Get(ctx, other.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestCourseSemesterValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	for name, semesters := range map[string][]string{
		"empty list": {},
		"blank":      {"S1", "  "},
		"duplicate":  {"S1", "S2", "S1"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := env.svc.Course.Create(ctx, &dto.CourseRequest{Name: "Physics", Semesters: semesters})
			if !errors.Is(err, pkgerrors.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}
