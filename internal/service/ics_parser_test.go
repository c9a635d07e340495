package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/RS76448/attendencesystem/internal/dto"
	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/pkg/timeslot"
)

// Two weekly classes, one one-off lecture, and a one-off repeat of a weekly class.
const testICSContent = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//Test//EN
BEGIN:VEVENT
UID:alg@test
SUMMARY:Algorithms
DTSTART;TZID=Asia/Kolkata:20240304T090000
DTEND;TZID=Asia/Kolkata:20240304T100000
RRULE:FREQ=WEEKLY;COUNT=16
END:VEVENT
BEGIN:VEVENT
UID:db@test
SUMMARY:Databases
DTSTART;TZID=Asia/Kolkata:20240305T140000
DURATION:PT1H30M
RRULE:FREQ=WEEKLY;COUNT=16
END:VEVENT
BEGIN:VEVENT
UID:guest@test
SUMMARY:Guest Lecture
DTSTART;TZID=Asia/Kolkata:20240307T110000
DTEND;TZID=Asia/Kolkata:20240307T123000
END:VEVENT
BEGIN:VEVENT
UID:alg-extra@test
SUMMARY:Algorithms
DTSTART;TZID=Asia/Kolkata:20240311T090000
DTEND;TZID=Asia/Kolkata:20240311T100000
END:VEVENT
END:VCALENDAR`

func TestParseICS(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	classes, err := ParseICS(strings.NewReader(testICSContent), loc)
	if err != nil {
		t.Fatalf("ParseICS: %v", err)
	}
	if len(classes) != 3 {
		t.Fatalf("expected 3 classes, got %d: %+v", len(classes), classes)
	}

	want := []icsClass{
		{Subject: "Algorithms", Day: timeslot.Monday, Time: "09:00 - 10:00"},
		{Subject: "Databases", Day: timeslot.Tuesday, Time: "14:00 - 15:30"},
		{Subject: "Guest Lecture", Day: timeslot.Thursday, Date: "2024-03-07", Time: "11:00 - 12:30"},
	}
	for i, w := range want {
		if classes[i] != w {
			t.Errorf("class %d = %+v, want %+v", i, classes[i], w)
		}
	}
}

func TestParseICS_Invalid(t *testing.T) {
	if _, err := ParseICS(strings.NewReader("not a calendar"), time.UTC); err == nil {
		t.Error("expected an error for non-calendar input")
	}
}

func TestImportICS_FacultyOwnsImportedClasses(t *testing.T) {
	env := newTestEnv()
	env.addUser("fac-1", model.RoleFaculty, "Dr. Rao")
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	env.now = testNow.In(loc)

	req := &dto.ImportICSRequest{Course: "Computer Science", Semester: "Semester 4", FacultyID: "fac-9"}
	result, err := env.svc.Timetable.ImportICS(context.Background(), []byte(testICSContent), req, facultyCaller("fac-1"))
	if err != nil {
		t.Fatalf("ImportICS: %v", err)
	}
	if result.Imported != 3 {
		t.Errorf("imported = %d, want 3 (%+v)", result.Imported, result.Rejected)
	}
	for _, e := range env.timetables.entries {
		if e.FacultyID != "fac-1" || e.FacultyName != "Dr. Rao" {
			t.Errorf("entry %s taught by %s/%s, want fac-1", e.Subject, e.FacultyID, e.FacultyName)
		}
		if e.Subject == "Guest Lecture" && (e.Date == nil || *e.Date != "2024-03-07") {
			t.Errorf("one-off lecture should keep its date, got %v", e.Date)
		}
	}
}
