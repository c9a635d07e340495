package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RS76448/attendencesystem/internal/dto"
	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
	pkgerrors "github.com/RS76448/attendencesystem/pkg/errors"
	"github.com/RS76448/attendencesystem/pkg/timeslot"
)

// ── timetable module errors ──

var (
	ErrEntryNotFound   = errors.New("timetable entry not found")
	ErrEntryForbidden  = errors.New("you can only change your own classes")
	ErrFacultyNotFound = errors.New("faculty member not found")
)

// TimetableService weekly class timetables per course and semester.
type TimetableService interface {
	List(ctx context.Context, q *dto.TimetableListRequest) ([]dto.TimetableEntryResponse, error)
	AddEntry(ctx context.Context, req *dto.TimetableEntryRequest, caller Caller) (*dto.TimetableEntryResponse, error)
	UpdateEntry(ctx context.Context, id string, req *dto.TimetableEntryRequest, caller Caller) (*dto.TimetableEntryResponse, error)
	DeleteEntry(ctx context.Context, id string, caller Caller) error
	// ReplaceScope swaps a whole course/semester timetable in one transaction.
	ReplaceScope(ctx context.Context, req *dto.ReplaceScopeRequest) (int, error)
	ImportCSV(ctx context.Context, data []byte) (*dto.ImportResult, error)
	ImportXLSX(ctx context.Context, data []byte) (*dto.ImportResult, error)
	ImportICS(ctx context.Context, data []byte, req *dto.ImportICSRequest, caller Caller) (*dto.ImportResult, error)
}

type timetableService struct {
	repo   *repository.Repository
	now    Clock
	logger *zap.Logger
}

// NewTimetableService creates a TimetableService.
func NewTimetableService(repo *repository.Repository, clock Clock, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, now: clock, logger: logger}
}

// entryInput is an entry as received from any source, before validation.
type entryInput struct {
	Course      string
	Semester    string
	Day         timeslot.WeekDay
	Date        string
	Time        string
	Subject     string
	FacultyID   string
	FacultyName string
}

// buildEntry validates in and returns the entry to store. Time is normalised
// to zero-padded "HH:MM - HH:MM"; a bare start time gets the default length.
func buildEntry(in entryInput) (*model.TimetableEntry, error) {
	e := &model.TimetableEntry{
		Course:      strings.TrimSpace(in.Course),
		Semester:    strings.TrimSpace(in.Semester),
		Day:         in.Day,
		Subject:     strings.TrimSpace(in.Subject),
		FacultyID:   strings.TrimSpace(in.FacultyID),
		FacultyName: strings.TrimSpace(in.FacultyName),
	}
	switch {
	case e.Course == "":
		return nil, pkgerrors.Invalid("course", "course is required")
	case e.Semester == "":
		return nil, pkgerrors.Invalid("semester", "semester is required")
	case e.Subject == "":
		return nil, pkgerrors.Invalid("subject", "subject is required")
	case !e.Day.Valid():
		return nil, pkgerrors.Invalid("day", "day must be 0 (Sunday) to 6 (Saturday)")
	}

	t, err := timeslot.NormalizeSlot(in.Time)
	if err != nil {
		return nil, err
	}
	e.Time = t

	if date := strings.TrimSpace(in.Date); date != "" {
		d, err := timeslot.ParseDate(date, time.UTC)
		if err != nil {
			return nil, pkgerrors.Invalid("date", "date must be YYYY-MM-DD")
		}
		if timeslot.DayOf(d) != e.Day {
			return nil, pkgerrors.Invalid("date", "%s is a %s, not a %s", date, timeslot.DayOf(d).Name(), e.Day.Name())
		}
		e.Date = &date
	}

	e.Prepare()
	return e, nil
}

func scheduledOf(entries []model.TimetableEntry) []timeslot.Scheduled {
	out := make([]timeslot.Scheduled, 0, len(entries))
	for i := range entries {
		out = append(out, entries[i].Scheduled())
	}
	return out
}

// ────────────────────── List ──────────────────────

func (s *timetableService) List(ctx context.Context, q *dto.TimetableListRequest) ([]dto.TimetableEntryResponse, error) {
	filter := repository.TimetableFilter{
		Course:    strings.TrimSpace(q.Course),
		Semester:  strings.TrimSpace(q.Semester),
		FacultyID: q.FacultyID,
	}
	if q.Day != nil {
		day := timeslot.WeekDay(*q.Day)
		filter.Day = &day
	}

	entries, err := s.repo.Timetable.List(ctx, filter)
	if err != nil {
		return nil, storeFailure(s.logger, "list timetable", err)
	}
	list := make([]dto.TimetableEntryResponse, 0, len(entries))
	for i := range entries {
		list = append(list, toEntryResponse(&entries[i]))
	}
	return list, nil
}

// ────────────────────── AddEntry / UpdateEntry ──────────────────────

func (s *timetableService) AddEntry(ctx context.Context, req *dto.TimetableEntryRequest, caller Caller) (*dto.TimetableEntryResponse, error) {
	entry, err := s.prepareEntry(ctx, req, caller)
	if err != nil {
		return nil, err
	}
	if err := s.checkConflicts(ctx, entry); err != nil {
		return nil, err
	}

	entry.ID = uuid.NewString()
	entry.Touch(s.now().UTC())
	if err := s.repo.Timetable.Create(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &timeslot.ConflictError{Subject: entry.Subject, Time: entry.Time, Day: entry.Day}
		}
		return nil, storeFailure(s.logger, "create timetable entry", err)
	}

	s.logger.Info("timetable entry added",
		zap.String("entry_id", entry.ID),
		zap.String("course", entry.Course),
		zap.String("semester", entry.Semester),
		zap.Stringer("day", entry.Day),
		zap.String("time", entry.Time),
	)
	resp := toEntryResponse(entry)
	return &resp, nil
}

func (s *timetableService) UpdateEntry(ctx context.Context, id string, req *dto.TimetableEntryRequest, caller Caller) (*dto.TimetableEntryResponse, error) {
	current, err := s.loadOwned(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	entry, err := s.prepareEntry(ctx, req, caller)
	if err != nil {
		return nil, err
	}
	entry.ID = current.ID
	entry.Timestamps = current.Timestamps
	if err := s.checkConflicts(ctx, entry); err != nil {
		return nil, err
	}

	entry.Touch(s.now().UTC())
	if err := s.repo.Timetable.Update(ctx, entry); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrEntryNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, &timeslot.ConflictError{Subject: entry.Subject, Time: entry.Time, Day: entry.Day}
		}
		return nil, storeFailure(s.logger, "update timetable entry", err, zap.String("entry_id", id))
	}

	resp := toEntryResponse(entry)
	return &resp, nil
}

func (s *timetableService) DeleteEntry(ctx context.Context, id string, caller Caller) error {
	if _, err := s.loadOwned(ctx, id, caller); err != nil {
		return err
	}
	if err := s.repo.Timetable.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		return storeFailure(s.logger, "delete timetable entry", err, zap.String("entry_id", id))
	}
	s.logger.Info("timetable entry deleted", zap.String("entry_id", id), zap.String("by", caller.ID))
	return nil
}

// prepareEntry validates the request and fills in the teaching faculty.
// Faculty always teach their own entries; admins name a faculty member.
func (s *timetableService) prepareEntry(ctx context.Context, req *dto.TimetableEntryRequest, caller Caller) (*model.TimetableEntry, error) {
	in := entryInput{
		Course:      req.Course,
		Semester:    req.Semester,
		Date:        req.Date,
		Time:        req.Time,
		Subject:     req.Subject,
		FacultyID:   req.FacultyID,
		FacultyName: req.FacultyName,
	}
	if req.Day != nil {
		in.Day = timeslot.WeekDay(*req.Day)
	}
	if !caller.IsAdmin() {
		in.FacultyID = caller.ID
	}
	if strings.TrimSpace(in.FacultyID) == "" {
		return nil, pkgerrors.Invalid("faculty_id", "faculty is required")
	}

	entry, err := buildEntry(in)
	if err != nil {
		return nil, err
	}

	faculty, err := lookupUser(ctx, s.repo, s.logger, entry.FacultyID, ErrFacultyNotFound)
	if err != nil {
		return nil, err
	}
	if faculty.Role != model.RoleFaculty {
		return nil, ErrFacultyNotFound
	}
	if entry.FacultyName == "" || !caller.IsAdmin() {
		entry.FacultyName = faculty.Name
	}
	return entry, nil
}

// checkConflicts rejects an entry overlapping another entry of its scope on
// the same day, or another class of the same faculty member that day.
func (s *timetableService) checkConflicts(ctx context.Context, entry *model.TimetableEntry) error {
	day := entry.Day
	scoped, err := s.repo.Timetable.List(ctx, repository.TimetableFilter{
		Course:   entry.Course,
		Semester: entry.Semester,
		Day:      &day,
	})
	if err != nil {
		return storeFailure(s.logger, "list timetable", err)
	}
	if err := timeslot.FindConflict(day, entry.Time, scheduledOf(scoped), entry.ID); err != nil {
		return err
	}

	if entry.FacultyID == "" {
		return nil
	}
	taught, err := s.repo.Timetable.List(ctx, repository.TimetableFilter{FacultyID: entry.FacultyID, Day: &day})
	if err != nil {
		return storeFailure(s.logger, "list timetable", err)
	}
	return timeslot.FindConflict(day, entry.Time, scheduledOf(taught), entry.ID)
}

func (s *timetableService) loadOwned(ctx context.Context, id string, caller Caller) (*model.TimetableEntry, error) {
	entry, err := s.repo.Timetable.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, storeFailure(s.logger, "load timetable entry", err, zap.String("entry_id", id))
	}
	if !caller.IsAdmin() && entry.FacultyID != caller.ID {
		return nil, ErrEntryForbidden
	}
	return entry, nil
}

// ────────────────────── ReplaceScope ──────────────────────

func (s *timetableService) ReplaceScope(ctx context.Context, req *dto.ReplaceScopeRequest) (int, error) {
	scope := model.Scope{Course: strings.TrimSpace(req.Course), Semester: strings.TrimSpace(req.Semester)}
	now := s.now().UTC()

	entries := make([]model.TimetableEntry, 0, len(req.Entries))
	for i, item := range req.Entries {
		in := entryInput{
			Course:      scope.Course,
			Semester:    scope.Semester,
			Date:        item.Date,
			Time:        item.Time,
			Subject:     item.Subject,
			FacultyID:   item.FacultyID,
			FacultyName: item.FacultyName,
		}
		if item.Day != nil {
			in.Day = timeslot.WeekDay(*item.Day)
		}
		entry, err := buildEntry(in)
		if err != nil {
			return 0, fmt.Errorf("entry %d: %w", i+1, err)
		}
		if err := timeslot.FindConflict(entry.Day, entry.Time, scheduledOf(entries), ""); err != nil {
			return 0, fmt.Errorf("entry %d: %w", i+1, err)
		}
		entry.ID = uuid.NewString()
		entry.Touch(now)
		entries = append(entries, *entry)
	}

	if err := s.checkFacultyElsewhere(ctx, scope, entries); err != nil {
		return 0, err
	}

	if err := s.repo.Timetable.ReplaceScope(ctx, scope, entries); err != nil {
		return 0, storeFailure(s.logger, "replace timetable", err,
			zap.String("course", scope.Course), zap.String("semester", scope.Semester))
	}

	s.logger.Info("timetable replaced",
		zap.String("course", scope.Course),
		zap.String("semester", scope.Semester),
		zap.Int("entries", len(entries)),
	)
	return len(entries), nil
}

// checkFacultyElsewhere rejects entries that double-book their faculty member
// against classes the same person teaches in other scopes.
func (s *timetableService) checkFacultyElsewhere(ctx context.Context, scope model.Scope, entries []model.TimetableEntry) error {
	taught := make(map[string][]timeslot.Scheduled)
	for i, e := range entries {
		if e.FacultyID == "" {
			continue
		}
		if _, ok := taught[e.FacultyID]; !ok {
			all, err := s.repo.Timetable.List(ctx, repository.TimetableFilter{FacultyID: e.FacultyID})
			if err != nil {
				return storeFailure(s.logger, "list timetable", err)
			}
			var others []model.TimetableEntry
			for _, o := range all {
				if o.Scope() != scope {
					others = append(others, o)
				}
			}
			taught[e.FacultyID] = scheduledOf(others)
		}
		if err := timeslot.FindConflict(e.Day, e.Time, taught[e.FacultyID], ""); err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	return nil
}

// ── conversion ──

func toEntryResponse(e *model.TimetableEntry) dto.TimetableEntryResponse {
	resp := dto.TimetableEntryResponse{
		ID:          e.ID,
		Course:      e.Course,
		Semester:    e.Semester,
		Day:         int(e.Day),
		DayName:     e.Day.Name(),
		Time:        e.Time,
		TimeLabel:   timeslot.FormatRangeForDisplay(e.Time),
		Subject:     e.Subject,
		FacultyID:   e.FacultyID,
		FacultyName: e.FacultyName,
	}
	if e.Date != nil {
		resp.Date = *e.Date
	}
	return resp
}
