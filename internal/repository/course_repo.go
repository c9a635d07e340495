package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/RS76448/attendencesystem/internal/model"
)

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo creates a CourseRepository.
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	return translate(r.db.WithContext(ctx).Create(course).Error)
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&course).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *courseRepo) GetByNameKey(ctx context.Context, key string) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).Where("name_key = ?", key).First(&course).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).Order("name ASC").Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return translate(r.db.WithContext(ctx).Save(course).Error)
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Course{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
