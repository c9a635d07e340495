package model

import (
	"strings"

	"gorm.io/datatypes"
)

// Course (courses). Names are unique ignoring case.
type Course struct {
	ID         string                      `gorm:"type:varchar(64);primaryKey" json:"id"        firestore:"id"        bson:"_id"`
	Name       string                      `gorm:"type:varchar(100);not null"  json:"name"      firestore:"name"      bson:"name"`
	NameKey    string                      `gorm:"type:varchar(100);not null"  json:"-"         firestore:"nameKey"   bson:"nameKey"`
	Semesters  datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"         json:"semesters" firestore:"semesters" bson:"semesters"`
	Timestamps `bson:",inline"`
}

// TableName table name.
func (Course) TableName() string { return "courses" }

// CourseNameKey is the comparison key for course names.
func CourseNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// HasSemester reports whether label is one of the course's semesters.
func (c *Course) HasSemester(label string) bool {
	for _, s := range c.Semesters {
		if s == label {
			return true
		}
	}
	return false
}
