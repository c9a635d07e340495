package model

import (
	"strconv"

	"github.com/RS76448/attendencesystem/pkg/timeslot"
)

// TimetableEntry (timetables) is a class held weekly on Day, or only on Date when set.
type TimetableEntry struct {
	ID          string           `gorm:"type:varchar(64);primaryKey"   json:"id"`
	Course      string           `gorm:"type:varchar(100);not null"    json:"course"`
	Semester    string           `gorm:"type:varchar(50);not null"     json:"semester"`
	Day         timeslot.WeekDay `gorm:"type:smallint;not null"        json:"day"`
	Date        *string          `gorm:"type:varchar(10)"              json:"date,omitempty"`
	Time        string           `gorm:"type:varchar(20);not null"     json:"time"`
	StartMinute int              `gorm:"not null"                      json:"-"`
	Subject     string           `gorm:"type:varchar(100);not null"    json:"subject"`
	FacultyID   string           `gorm:"type:varchar(64)"              json:"faculty_id"`
	FacultyName string           `gorm:"type:varchar(100)"             json:"faculty_name"`
	Timestamps
}

// TableName table name.
func (TimetableEntry) TableName() string { return "timetable_entries" }

// Scope identifies one course/semester timetable.
type Scope struct {
	Course   string `json:"course"`
	Semester string `json:"semester"`
}

// Scope of the entry.
func (e *TimetableEntry) Scope() Scope { return Scope{Course: e.Course, Semester: e.Semester} }

// SlotKey is the upsert key within a scope.
type SlotKey struct {
	Scope
	Day  timeslot.WeekDay
	Time string
}

// Key returns the entry's upsert key.
func (e *TimetableEntry) Key() SlotKey {
	return SlotKey{Scope: e.Scope(), Day: e.Day, Time: e.Time}
}

// Scheduled projects the entry for conflict checks.
func (e *TimetableEntry) Scheduled() timeslot.Scheduled {
	return timeslot.Scheduled{ID: e.ID, Subject: e.Subject, Day: e.Day, Time: e.Time}
}

// OnDate reports whether the entry is held on the given calendar date ("YYYY-MM-DD") of its weekday.
func (e *TimetableEntry) OnDate(date string) bool {
	return e.Date == nil || *e.Date == "" || *e.Date == date
}

// Prepare derives StartMinute from Time.
func (e *TimetableEntry) Prepare() {
	e.StartMinute = timeslot.ToInterval(e.Time).Start
}

// TimetableDoc is the document-store shape of an entry. Day is kept as the
// index text ("0".."6") the screens and CSV files use.
type TimetableDoc struct {
	ID          string `firestore:"id"          bson:"_id"`
	Course      string `firestore:"course"      bson:"course"`
	Semester    string `firestore:"semester"    bson:"semester"`
	Day         string `firestore:"day"         bson:"day"`
	Date        string `firestore:"date"        bson:"date"`
	Time        string `firestore:"time"        bson:"time"`
	StartMinute int    `firestore:"startMinute" bson:"startMinute"`
	Subject     string `firestore:"subject"     bson:"subject"`
	FacultyID   string `firestore:"facultyId"   bson:"facultyId"`
	FacultyName string `firestore:"facultyName" bson:"facultyName"`
	Timestamps  `bson:",inline"`
}

// ToDoc converts to the document shape.
func (e *TimetableEntry) ToDoc() TimetableDoc {
	doc := TimetableDoc{
		ID:          e.ID,
		Course:      e.Course,
		Semester:    e.Semester,
		Day:         strconv.Itoa(int(e.Day)),
		Time:        e.Time,
		StartMinute: e.StartMinute,
		Subject:     e.Subject,
		FacultyID:   e.FacultyID,
		FacultyName: e.FacultyName,
		Timestamps:  e.Timestamps,
	}
	if e.Date != nil {
		doc.Date = *e.Date
	}
	return doc
}

// Entry converts back. Documents with an unreadable day land on Sunday.
func (d TimetableDoc) Entry() TimetableEntry {
	day, _ := timeslot.ParseWeekDay(d.Day)
	e := TimetableEntry{
		ID:          d.ID,
		Course:      d.Course,
		Semester:    d.Semester,
		Day:         day,
		Time:        d.Time,
		StartMinute: d.StartMinute,
		Subject:     d.Subject,
		FacultyID:   d.FacultyID,
		FacultyName: d.FacultyName,
		Timestamps:  d.Timestamps,
	}
	if d.Date != "" {
		date := d.Date
		e.Date = &date
	}
	return e
}
