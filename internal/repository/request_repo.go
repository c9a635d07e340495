package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/RS76448/attendencesystem/internal/model"
	pkgerrors "github.com/RS76448/attendencesystem/pkg/errors"
)

type requestRepo struct {
	db *gorm.DB
}

// NewRequestRepo creates a RequestRepository.
func NewRequestRepo(db *gorm.DB) RequestRepository {
	return &requestRepo{db: db}
}

func (r *requestRepo) Create(ctx context.Context, req *model.AttendanceRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	return translate(r.db.WithContext(ctx).Create(req).Error)
}

func (r *requestRepo) GetByID(ctx context.Context, id string) (*model.AttendanceRequest, error) {
	var req model.AttendanceRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (r *requestRepo) List(ctx context.Context, filter RequestFilter) ([]model.AttendanceRequest, error) {
	var reqs []model.AttendanceRequest
	db := r.db.WithContext(ctx)
	if filter.StudentID != "" {
		db = db.Where("student_id = ?", filter.StudentID)
	}
	if filter.FacultyID != "" {
		db = db.Where("faculty_id = ?", filter.FacultyID)
	}
	if filter.Course != "" {
		db = db.Where("course = ?", filter.Course)
	}
	if filter.Semester != "" {
		db = db.Where("semester = ?", filter.Semester)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	err := db.Order("submitted_at DESC").Find(&reqs).Error
	return reqs, err
}

// missingOrStale tells a vanished row from one whose status moved on.
func (r *requestRepo) missingOrStale(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.AttendanceRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return pkgerrors.ErrOptimisticLock
}

func (r *requestRepo) UpdateStatus(ctx context.Context, req *model.AttendanceRequest, expected model.RequestStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.AttendanceRequest{}).
		Where("id = ? AND status = ?", req.ID, expected).
		Updates(map[string]interface{}{
			"status":          req.Status,
			"previous_status": req.PreviousStatus,
			"processed_at":    req.ProcessedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, req.ID)
	}
	return nil
}

func (r *requestRepo) DeleteIfStatus(ctx context.Context, id string, expected model.RequestStatus) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, expected).
		Delete(&model.AttendanceRequest{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, id)
	}
	return nil
}
