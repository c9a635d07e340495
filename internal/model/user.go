package model

// Role of a signed-in user.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

// User profile document (users). ID equals the identity provider uid.
type User struct {
	ID       string `gorm:"type:varchar(64);primaryKey"   json:"id"         firestore:"id"        bson:"_id"`
	Name     string `gorm:"type:varchar(100);not null"    json:"name"       firestore:"name"      bson:"name"`
	Email    string `gorm:"type:varchar(255);not null"    json:"email"      firestore:"email"     bson:"email"`
	Role     Role   `gorm:"type:varchar(20);not null"     json:"role"       firestore:"role"      bson:"role"`
	Course   string `gorm:"type:varchar(100);not null"    json:"course"     firestore:"course"    bson:"course"`
	Semester string `gorm:"type:varchar(50);not null"     json:"semester"   firestore:"semester"  bson:"semester"`
	// PRN is the student's permanent registration number.
	PRN        string `gorm:"column:prn;type:varchar(50)"   json:"prn"        firestore:"prn"       bson:"prn"`
	FacultyID  string `gorm:"type:varchar(50)"              json:"faculty_id" firestore:"facultyId" bson:"facultyId"`
	Timestamps `bson:",inline"`
}

// TableName table name.
func (User) TableName() string { return "users" }
