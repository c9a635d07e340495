package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/RS76448/attendencesystem/internal/model"
)

type timetableRepo struct {
	db *gorm.DB
}

// NewTimetableRepo creates a TimetableRepository.
func NewTimetableRepo(db *gorm.DB) TimetableRepository {
	return &timetableRepo{db: db}
}

func prepareEntry(e *model.TimetableEntry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Prepare()
}

func (r *timetableRepo) Create(ctx context.Context, entry *model.TimetableEntry) error {
	prepareEntry(entry)
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *timetableRepo) GetByID(ctx context.Context, id string) (*model.TimetableEntry, error) {
	var entry model.TimetableEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *timetableRepo) List(ctx context.Context, filter TimetableFilter) ([]model.TimetableEntry, error) {
	var entries []model.TimetableEntry
	db := r.db.WithContext(ctx)
	if filter.Course != "" {
		db = db.Where("course = ?", filter.Course)
	}
	if filter.Semester != "" {
		db = db.Where("semester = ?", filter.Semester)
	}
	if filter.FacultyID != "" {
		db = db.Where("faculty_id = ?", filter.FacultyID)
	}
	if filter.Day != nil {
		db = db.Where("day = ?", int(*filter.Day))
	}
	err := db.Order("day ASC, start_minute ASC, subject ASC").Find(&entries).Error
	return entries, err
}

func (r *timetableRepo) Update(ctx context.Context, entry *model.TimetableEntry) error {
	entry.Prepare()
	return translate(r.db.WithContext(ctx).Save(entry).Error)
}

func (r *timetableRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.TimetableEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *timetableRepo) Upsert(ctx context.Context, entry *model.TimetableEntry) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.TimetableEntry
		err := tx.Where("course = ? AND semester = ? AND day = ? AND time = ?",
			entry.Course, entry.Semester, int(entry.Day), entry.Time).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			prepareEntry(entry)
			return tx.Create(entry).Error
		case err != nil:
			return err
		}

		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		entry.Prepare()
		return tx.Save(entry).Error
	})
	return created, translate(err)
}

func (r *timetableRepo) ReplaceScope(ctx context.Context, scope model.Scope, entries []model.TimetableEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course = ? AND semester = ?", scope.Course, scope.Semester).
			Delete(&model.TimetableEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		for i := range entries {
			prepareEntry(&entries[i])
		}
		return translate(tx.Create(&entries).Error)
	})
}
