package domain

import "time"

// Session is a DB-backed login session referenced by the `_sid` cookie.
type Session struct {
	Token     string    `json:"-" gorm:"primaryKey;size:64"`
	UserID    int64     `json:"user_id" gorm:"index"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}
