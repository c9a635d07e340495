package model

import (
	"time"

	"gorm.io/datatypes"

	"github.com/RS76448/attendencesystem/pkg/timeslot"
)

// ClassDetail is one class an absence request covers.
type ClassDetail struct {
	Subject     string           `json:"subject"                firestore:"subject"     bson:"subject"`
	Date        string           `json:"date"                   firestore:"date"        bson:"date"`
	Time        string           `json:"time"                   firestore:"time"        bson:"time"`
	Day         timeslot.WeekDay `json:"day"                    firestore:"day"         bson:"day"`
	TimetableID string           `json:"timetable_id,omitempty" firestore:"timetableId" bson:"timetableId,omitempty"`
}

// Slot of the class.
func (d ClassDetail) Slot() timeslot.Slot {
	return timeslot.Slot{Subject: d.Subject, Day: d.Day, Time: d.Time}
}

// AttendanceRequest absence request (attendanceRequests).
type AttendanceRequest struct {
	ID             string                           `gorm:"type:varchar(64);primaryKey" json:"id"                        firestore:"id"             bson:"_id"`
	StudentID      string                           `gorm:"type:varchar(64);not null"   json:"student_id"                firestore:"studentId"      bson:"studentId"`
	StudentName    string                           `gorm:"type:varchar(100)"           json:"student_name"              firestore:"studentName"    bson:"studentName"`
	StudentPRN     string                           `gorm:"column:student_prn"          json:"student_prn"               firestore:"studentPrn"     bson:"studentPrn"`
	Course         string                           `gorm:"type:varchar(100)"           json:"course"                    firestore:"course"         bson:"course"`
	Semester       string                           `gorm:"type:varchar(50)"            json:"semester"                  firestore:"semester"       bson:"semester"`
	FacultyID      string                           `gorm:"type:varchar(64);not null"   json:"faculty_id"                firestore:"facultyId"      bson:"facultyId"`
	FacultyName    string                           `gorm:"type:varchar(100)"           json:"faculty_name"              firestore:"facultyName"    bson:"facultyName"`
	ClassDetails   datatypes.JSONSlice[ClassDetail] `gorm:"type:jsonb;not null"         json:"class_details"             firestore:"classDetails"   bson:"classDetails"`
	Reason         string                           `gorm:"type:text;not null"          json:"reason"                    firestore:"reason"         bson:"reason"`
	Status         RequestStatus                    `gorm:"type:varchar(20);not null"   json:"status"                    firestore:"status"         bson:"status"`
	PreviousStatus *RequestStatus                   `gorm:"type:varchar(20)"            json:"previous_status,omitempty" firestore:"previousStatus" bson:"previousStatus,omitempty"`
	SubmittedAt    time.Time                        `gorm:"not null"                    json:"submitted_at"              firestore:"submittedAt"    bson:"submittedAt"`
	ProcessedAt    *time.Time                       `json:"processed_at,omitempty"      firestore:"processedAt"            bson:"processedAt,omitempty"`
}

// TableName table name.
func (AttendanceRequest) TableName() string { return "attendance_requests" }

// State reads the status machine out of the stored fields.
func (r *AttendanceRequest) State() StatusState {
	st := StatusState{Current: r.Status}
	if r.PreviousStatus != nil {
		st.Undo = &UndoToken{Prior: *r.PreviousStatus}
	}
	return st
}

// Apply writes st back into the stored fields.
func (r *AttendanceRequest) Apply(st StatusState, now time.Time) {
	r.Status = st.Current
	r.PreviousStatus = nil
	if st.Undo != nil {
		prior := st.Undo.Prior
		r.PreviousStatus = &prior
	}
	if st.Current.IsDecision() {
		r.ProcessedAt = &now
	} else {
		r.ProcessedAt = nil
	}
}

// Claims lists the request's class details as slot claims.
func (r *AttendanceRequest) Claims() []timeslot.Claim {
	claims := make([]timeslot.Claim, 0, len(r.ClassDetails))
	for _, d := range r.ClassDetails {
		claims = append(claims, timeslot.Claim{
			Slot:     d.Slot(),
			Date:     d.Date,
			Rejected: r.Status == StatusRejected,
		})
	}
	return claims
}
