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

// ── absence request errors ──

var (
	ErrRequestNotFound   = errors.New("absence request not found")
	ErrRequestForbidden  = errors.New("you cannot access this absence request")
	ErrRequestNotPending = errors.New("absence request has already been processed")
	ErrNothingToUndo     = errors.New("there is no decision to undo")
	ErrClassInPast       = errors.New("class has already started")
)

// AttendanceService absence requests and their approval.
type AttendanceService interface {
	Submit(ctx context.Context, studentID string, req *dto.SubmitRequestRequest) (*dto.AttendanceRequestResponse, error)
	ListMine(ctx context.Context, studentID string) ([]dto.AttendanceRequestResponse, error)
	ListForFaculty(ctx context.Context, facultyID string, q *dto.RequestListQuery) ([]dto.AttendanceRequestResponse, error)
	List(ctx context.Context, q *dto.RequestListQuery) ([]dto.AttendanceRequestResponse, error)
	Get(ctx context.Context, id string, caller Caller) (*dto.AttendanceRequestResponse, error)
	Decide(ctx context.Context, id string, req *dto.DecisionRequest, caller Caller) (*dto.AttendanceRequestResponse, error)
	// Undo reverts the last decision, once.
	Undo(ctx context.Context, id string, caller Caller) (*dto.AttendanceRequestResponse, error)
	// Withdraw deletes a student's own request while it is still pending.
	Withdraw(ctx context.Context, id, studentID string) error
}

type attendanceService struct {
	repo   *repository.Repository
	now    Clock
	logger *zap.Logger
}

// NewAttendanceService creates an AttendanceService.
func NewAttendanceService(repo *repository.Repository, clock Clock, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, now: clock, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *attendanceService) Submit(ctx context.Context, studentID string, req *dto.SubmitRequestRequest) (*dto.AttendanceRequestResponse, error) {
	student, err := lookupUser(ctx, s.repo, s.logger, studentID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	if student.Role != model.RoleStudent {
		return nil, ErrNotStudent
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, pkgerrors.Invalid("reason", "reason is required")
	}
	if len(req.Classes) == 0 {
		return nil, pkgerrors.Invalid("classes", "select at least one class")
	}
	faculty, err := s.repo.User.GetByID(ctx, strings.TrimSpace(req.FacultyID))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, pkgerrors.Invalid("faculty_id", "select a faculty member")
	case err != nil:
		return nil, storeFailure(s.logger, "load faculty", err)
	case faculty.Role != model.RoleFaculty:
		return nil, pkgerrors.Invalid("faculty_id", "select a faculty member")
	}

	earlier, err := s.repo.Request.List(ctx, repository.RequestFilter{StudentID: studentID})
	if err != nil {
		return nil, storeFailure(s.logger, "list requests", err, zap.String("student_id", studentID))
	}
	var claims []timeslot.Claim
	for i := range earlier {
		claims = append(claims, earlier[i].Claims()...)
	}

	now := s.now()
	details := make([]model.ClassDetail, 0, len(req.Classes))
	for i, c := range req.Classes {
		detail, date, err := s.classDetail(ctx, student, c, now.Location())
		if err != nil {
			return nil, fmt.Errorf("class %d: %w", i+1, err)
		}
		wd := timeslot.DateOf(date, now)
		if wd.IsPast || timeslot.IsInPast(wd, detail.Time, now) {
			return nil, fmt.Errorf("%s on %s at %s: %w", detail.Subject, detail.Date, detail.Time, ErrClassInPast)
		}
		if err := timeslot.FindDuplicate(detail.Slot(), wd, claims); err != nil {
			return nil, err
		}
		claims = append(claims, timeslot.Claim{Slot: detail.Slot(), Date: detail.Date})
		details = append(details, detail)
	}

	record := &model.AttendanceRequest{
		ID:           uuid.NewString(),
		StudentID:    student.ID,
		StudentName:  student.Name,
		StudentPRN:   student.PRN,
		Course:       student.Course,
		Semester:     student.Semester,
		FacultyID:    faculty.ID,
		FacultyName:  faculty.Name,
		ClassDetails: details,
		Reason:       reason,
		Status:       model.StatusPending,
		SubmittedAt:  now.UTC(),
	}
	if err := s.repo.Request.Create(ctx, record); err != nil {
		return nil, storeFailure(s.logger, "create request", err, zap.String("student_id", studentID))
	}

	s.logger.Info("absence request submitted",
		zap.String("request_id", record.ID),
		zap.String("student_id", student.ID),
		zap.String("faculty_id", faculty.ID),
		zap.Int("classes", len(details)),
	)
	resp := toRequestResponse(record)
	return &resp, nil
}

// classDetail validates one picked class. A class picked from the timetable
// takes its subject and time from the entry.
func (s *attendanceService) classDetail(ctx context.Context, student *model.User, c dto.ClassDetailRequest, loc *time.Location) (model.ClassDetail, time.Time, error) {
	date := strings.TrimSpace(c.Date)
	d, err := timeslot.ParseDate(date, loc)
	if err != nil {
		return model.ClassDetail{}, d, pkgerrors.Invalid("date", "date must be YYYY-MM-DD")
	}
	detail := model.ClassDetail{
		Subject:     strings.TrimSpace(c.Subject),
		Date:        date,
		Time:        strings.TrimSpace(c.Time),
		Day:         timeslot.DayOf(d),
		TimetableID: strings.TrimSpace(c.TimetableID),
	}

	if detail.TimetableID != "" {
		entry, err := s.repo.Timetable.GetByID(ctx, detail.TimetableID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return model.ClassDetail{}, d, pkgerrors.Invalid("timetable_id", "class is no longer on the timetable")
			}
			return model.ClassDetail{}, d, storeFailure(s.logger, "load timetable entry", err)
		}
		if entry.Course != student.Course || entry.Semester != student.Semester {
			return model.ClassDetail{}, d, pkgerrors.Invalid("timetable_id", "class is not on your timetable")
		}
		if entry.Day != detail.Day || !entry.OnDate(date) {
			return model.ClassDetail{}, d, pkgerrors.Invalid("date", "%s is not held on %s", entry.Subject, date)
		}
		detail.Subject, detail.Time = entry.Subject, entry.Time
	}

	if detail.Subject == "" {
		return model.ClassDetail{}, d, pkgerrors.Invalid("subject", "subject is required")
	}
	if err := timeslot.ValidateSlot(detail.Time); err != nil {
		return model.ClassDetail{}, d, err
	}
	return detail, d, nil
}

// ────────────────────── queries ──────────────────────

func (s *attendanceService) ListMine(ctx context.Context, studentID string) ([]dto.AttendanceRequestResponse, error) {
	return s.list(ctx, repository.RequestFilter{StudentID: studentID})
}

func (s *attendanceService) ListForFaculty(ctx context.Context, facultyID string, q *dto.RequestListQuery) ([]dto.AttendanceRequestResponse, error) {
	filter := queryFilter(q)
	filter.FacultyID = facultyID
	return s.list(ctx, filter)
}

func (s *attendanceService) List(ctx context.Context, q *dto.RequestListQuery) ([]dto.AttendanceRequestResponse, error) {
	return s.list(ctx, queryFilter(q))
}

func (s *attendanceService) list(ctx context.Context, filter repository.RequestFilter) ([]dto.AttendanceRequestResponse, error) {
	records, err := s.repo.Request.List(ctx, filter)
	if err != nil {
		return nil, storeFailure(s.logger, "list requests", err)
	}
	list := make([]dto.AttendanceRequestResponse, 0, len(records))
	for i := range records {
		list = append(list, toRequestResponse(&records[i]))
	}
	return list, nil
}

func queryFilter(q *dto.RequestListQuery) repository.RequestFilter {
	return repository.RequestFilter{
		StudentID: q.StudentID,
		FacultyID: q.FacultyID,
		Course:    q.Course,
		Semester:  q.Semester,
		Status:    model.RequestStatus(q.Status),
	}
}

func (s *attendanceService) Get(ctx context.Context, id string, caller Caller) (*dto.AttendanceRequestResponse, error) {
	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	switch caller.Role {
	case model.RoleStudent:
		if record.StudentID != caller.ID {
			return nil, ErrRequestForbidden
		}
	case model.RoleFaculty:
		if record.FacultyID != caller.ID {
			return nil, ErrRequestForbidden
		}
	}
	resp := toRequestResponse(record)
	return &resp, nil
}

// ────────────────────── Decide / Undo ──────────────────────

func (s *attendanceService) Decide(ctx context.Context, id string, req *dto.DecisionRequest, caller Caller) (*dto.AttendanceRequestResponse, error) {
	return s.transition(ctx, id, caller, func(st model.StatusState) (model.StatusState, error) {
		next, err := st.Decide(model.RequestStatus(req.Status))
		if errors.Is(err, model.ErrInvalidTransition) {
			return st, ErrRequestNotPending
		}
		return next, err
	})
}

func (s *attendanceService) Undo(ctx context.Context, id string, caller Caller) (*dto.AttendanceRequestResponse, error) {
	return s.transition(ctx, id, caller, func(st model.StatusState) (model.StatusState, error) {
		next, err := st.Revert()
		if errors.Is(err, model.ErrNothingToUndo) {
			return st, ErrNothingToUndo
		}
		return next, err
	})
}

// transition applies step to the request's status, writing only if nobody
// changed the status in between.
func (s *attendanceService) transition(ctx context.Context, id string, caller Caller, step func(model.StatusState) (model.StatusState, error)) (*dto.AttendanceRequestResponse, error) {
	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && record.FacultyID != caller.ID {
		return nil, ErrRequestForbidden
	}

	expected := record.Status
	next, err := step(record.State())
	if err != nil {
		return nil, err
	}
	record.Apply(next, s.now().UTC())

	if err := s.repo.Request.UpdateStatus(ctx, record, expected); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrRequestNotFound
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			return nil, err
		}
		return nil, storeFailure(s.logger, "update request status", err, zap.String("request_id", id))
	}

	s.logger.Info("absence request status changed",
		zap.String("request_id", id),
		zap.String("from", string(expected)),
		zap.String("to", string(record.Status)),
		zap.String("by", caller.ID),
	)
	resp := toRequestResponse(record)
	return &resp, nil
}

// ────────────────────── Withdraw ──────────────────────

func (s *attendanceService) Withdraw(ctx context.Context, id, studentID string) error {
	record, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if record.StudentID != studentID {
		return ErrRequestForbidden
	}
	if record.Status != model.StatusPending {
		return ErrRequestNotPending
	}

	if err := s.repo.Request.DeleteIfStatus(ctx, id, model.StatusPending); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrRequestNotFound
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			return ErrRequestNotPending
		}
		return storeFailure(s.logger, "delete request", err, zap.String("request_id", id))
	}
	s.logger.Info("absence request withdrawn", zap.String("request_id", id), zap.String("student_id", studentID))
	return nil
}

func (s *attendanceService) load(ctx context.Context, id string) (*model.AttendanceRequest, error) {
	record, err := s.repo.Request.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, storeFailure(s.logger, "load request", err, zap.String("request_id", id))
	}
	return record, nil
}

// ── conversion ──

func toRequestResponse(r *model.AttendanceRequest) dto.AttendanceRequestResponse {
	resp := dto.AttendanceRequestResponse{
		ID:           r.ID,
		StudentID:    r.StudentID,
		StudentName:  r.StudentName,
		StudentPRN:   r.StudentPRN,
		Course:       r.Course,
		Semester:     r.Semester,
		FacultyID:    r.FacultyID,
		FacultyName:  r.FacultyName,
		ClassDetails: make([]dto.ClassDetailResponse, 0, len(r.ClassDetails)),
		Reason:       r.Reason,
		Status:       string(r.Status),
		CanUndo:      r.State().Undo != nil,
		SubmittedAt:  r.SubmittedAt.Format(dto.TimeLayout),
	}
	for _, d := range r.ClassDetails {
		resp.ClassDetails = append(resp.ClassDetails, dto.ClassDetailResponse{
			Subject:     d.Subject,
			Date:        d.Date,
			Time:        d.Time,
			TimeLabel:   timeslot.FormatRangeForDisplay(d.Time),
			Day:         int(d.Day),
			DayName:     d.Day.Name(),
			TimetableID: d.TimetableID,
		})
	}
	if r.PreviousStatus != nil {
		resp.PreviousStatus = string(*r.PreviousStatus)
	}
	if r.ProcessedAt != nil {
		resp.ProcessedAt = r.ProcessedAt.Format(dto.TimeLayout)
	}
	return resp
}
