package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RS76448/attendencesystem/internal/dto"
	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/pkg/timeslot"
)

func findSlot(t *testing.T, week *dto.WeekResponse, day timeslot.WeekDay, subject string) dto.WeekSlotResponse {
	t.Helper()
	for _, s := range week.Days[day].Slots {
		if s.Subject == subject {
			return s
		}
	}
	t.Fatalf("no %s slot on %s", subject, day)
	return dto.WeekSlotResponse{}
}

func TestGetWeek(t *testing.T) {
	env := setupAttendance()
	// Wednesday 6 March 2024, 10:30.
	env.now = time.Date(2024, 3, 6, 10, 30, 0, 0, time.UTC)
	env.addEntry("e-mon", timeslot.Monday, "14:00 - 15:00", "Databases", "fac-2")
	env.addEntry("e-wed-early", timeslot.Wednesday, "10:00 - 11:00", "Networks", "fac-2")
	env.addEntry("e-wed-late", timeslot.Wednesday, "15:00 - 16:00", "Compilers", "fac-1")
	env.addEntry("e-fri", timeslot.Friday, "09:00 - 10:00", "Graphics", "fac-1")
	special := env.addEntry("e-sat", timeslot.Saturday, "09:00 - 10:00", "Workshop", "fac-1")
	date := "2024-03-16"
	special.Date = &date

	env.requests.requests["r-1"] = &model.AttendanceRequest{
		ID:        "r-1",
		StudentID: "stu-1",
		FacultyID: "fac-1",
		ClassDetails: []model.ClassDetail{
			{Subject: "Graphics", Date: "2024-03-08", Time: "09:00 - 10:00", Day: timeslot.Friday},
		},
		Status:      model.StatusPending,
		SubmittedAt: env.now.Add(-time.Hour),
	}

	week, err := env.svc.Week.GetWeek(context.Background(), "stu-1")
	if err != nil {
		t.Fatalf("GetWeek: %v", err)
	}
	if len(week.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(week.Days))
	}
	if week.Days[0].Date != "2024-03-03" || week.Days[6].Date != "2024-03-09" {
		t.Errorf("week spans %s..%s", week.Days[0].Date, week.Days[6].Date)
	}
	if !week.Days[3].IsToday || week.Days[3].IsPast || !week.Days[2].IsPast {
		t.Errorf("today/past flags wrong: %+v", week.Days[2:4])
	}

	if s := findSlot(t, week, timeslot.Monday, "Algorithms"); !s.Past || s.Selectable {
		t.Errorf("Monday class is past: %+v", s)
	}
	if s := findSlot(t, week, timeslot.Wednesday, "Networks"); !s.Past || s.Selectable {
		t.Errorf("class in progress counts as past: %+v", s)
	}
	if s := findSlot(t, week, timeslot.Wednesday, "Compilers"); s.Past || !s.Selectable || s.TimeLabel != "3:00 PM - 4:00 PM" {
		t.Errorf("later class today is selectable: %+v", s)
	}
	graphics := findSlot(t, week, timeslot.Friday, "Graphics")
	if graphics.Selectable || graphics.RequestID != "r-1" || graphics.RequestStatus != "pending" {
		t.Errorf("requested class: %+v", graphics)
	}
	if n := len(week.Days[timeslot.Saturday].Slots); n != 0 {
		t.Errorf("dated entry for another week shown %d times", n)
	}
}

func TestGetWeek_RejectedRequestFreesSlot(t *testing.T) {
	env := setupAttendance()
	env.requests.requests["r-1"] = &model.AttendanceRequest{
		ID:        "r-1",
		StudentID: "stu-1",
		ClassDetails: []model.ClassDetail{
			{Subject: "Algorithms", Date: "2024-03-04", Time: "09:00 - 10:00", Day: timeslot.Monday},
		},
		Status: model.StatusRejected,
	}

	week, err := env.svc.Week.GetWeek(context.Background(), "stu-1")
	if err != nil {
		t.Fatalf("GetWeek: %v", err)
	}
	s := findSlot(t, week, timeslot.Monday, "Algorithms")
	if !s.Selectable || s.RequestStatus != "rejected" {
		t.Errorf("rejected request should leave the slot selectable: %+v", s)
	}
}

func TestGetWeek_NotStudent(t *testing.T) {
	env := setupAttendance()
	if _, err := env.svc.Week.GetWeek(context.Background(), "fac-1"); !errors.Is(err, ErrNotStudent) {
		t.Errorf("expected ErrNotStudent, got %v", err)
	}
	if _, err := env.svc.Week.GetWeek(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
