package models

import "time"

type EmailSignup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (EmailSignup) TableName() string {
	return "user_email"
}
