package model

import "time"

// Account is a password credential held by the local identity provider (accounts).
type Account struct {
	UID          string    `gorm:"type:varchar(64);primaryKey" json:"uid"        firestore:"uid"          bson:"_id"`
	Email        string    `gorm:"type:varchar(255);not null"  json:"email"      firestore:"email"        bson:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"  json:"-"          firestore:"passwordHash" bson:"passwordHash"`
	CreatedAt    time.Time `gorm:"not null"                    json:"created_at" firestore:"createdAt"    bson:"createdAt"`
}

// TableName table name.
func (Account) TableName() string { return "accounts" }
