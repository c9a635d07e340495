package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/RS76448/attendencesystem/internal/dto"
	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
	"github.com/RS76448/attendencesystem/pkg/timeslot"
)

var ErrNotStudent = errors.New("only students have a class week")

// WeekService the student's current week of classes.
type WeekService interface {
	GetWeek(ctx context.Context, studentID string) (*dto.WeekResponse, error)
}

type weekService struct {
	repo   *repository.Repository
	now    Clock
	logger *zap.Logger
}

// NewWeekService creates a WeekService.
func NewWeekService(repo *repository.Repository, clock Clock, logger *zap.Logger) WeekService {
	return &weekService{repo: repo, now: clock, logger: logger}
}

func (s *weekService) GetWeek(ctx context.Context, studentID string) (*dto.WeekResponse, error) {
	student, err := lookupUser(ctx, s.repo, s.logger, studentID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	if student.Role != model.RoleStudent {
		return nil, ErrNotStudent
	}

	entries, err := s.repo.Timetable.List(ctx, repository.TimetableFilter{
		Course:   student.Course,
		Semester: student.Semester,
	})
	if err != nil {
		return nil, storeFailure(s.logger, "list timetable", err, zap.String("student_id", studentID))
	}
	requests, err := s.repo.Request.List(ctx, repository.RequestFilter{StudentID: studentID})
	if err != nil {
		return nil, storeFailure(s.logger, "list requests", err, zap.String("student_id", studentID))
	}

	var claims []timeslot.Claim
	for i := range requests {
		claims = append(claims, requests[i].Claims()...)
	}

	now := s.now()
	resp := &dto.WeekResponse{Course: student.Course, Semester: student.Semester}
	for _, wd := range timeslot.CurrentWeek(now) {
		day := dto.WeekDayResponse{
			Date:    wd.DateString(),
			Day:     int(wd.Day),
			Name:    wd.Name,
			IsToday: wd.IsToday,
			IsPast:  wd.IsPast,
			Slots:   []dto.WeekSlotResponse{},
		}
		for i := range entries {
			e := &entries[i]
			if e.Day != wd.Day || !e.OnDate(day.Date) {
				continue
			}
			slot := timeslot.Slot{Subject: e.Subject, Day: e.Day, Time: e.Time}
			item := dto.WeekSlotResponse{
				TimetableID: e.ID,
				Subject:     e.Subject,
				Time:        e.Time,
				TimeLabel:   timeslot.FormatRangeForDisplay(e.Time),
				FacultyID:   e.FacultyID,
				FacultyName: e.FacultyName,
				Past:        wd.IsPast || timeslot.IsInPast(wd, e.Time, now),
				Selectable:  timeslot.IsSelectable(wd, slot, claims, now),
			}
			if req := requestFor(requests, slot, day.Date); req != nil {
				item.RequestID = req.ID
				item.RequestStatus = string(req.Status)
			}
			day.Slots = append(day.Slots, item)
		}
		resp.Days = append(resp.Days, day)
	}
	return resp, nil
}

// requestFor finds the request covering slot on date, preferring one that
// was not rejected. requests are newest first.
func requestFor(requests []model.AttendanceRequest, slot timeslot.Slot, date string) *model.AttendanceRequest {
	var rejected *model.AttendanceRequest
	for i := range requests {
		r := &requests[i]
		for _, d := range r.ClassDetails {
			if d.Date != date || d.Subject != slot.Subject || d.Day != slot.Day || !timeslot.Overlaps(d.Time, slot.Time) {
				continue
			}
			if r.Status != model.StatusRejected {
				return r
			}
			if rejected == nil {
				rejected = r
			}
		}
	}
	return rejected
}
