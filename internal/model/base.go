package model

import "time"

// Timestamps audit columns shared by every stored document.
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at" firestore:"updatedAt" bson:"updatedAt"`
}

// Touch sets UpdatedAt, and CreatedAt when it is still zero.
func (t *Timestamps) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}
