package domain

import "time"

const (
	RoleAdmin       = "admin"
	RoleColaborador = "colaborador"
)

// StaffUser is a console account. PasswordHash holds an encoded argon2id
// digest and never leaves the service layer.
type StaffUser struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:64;uniqueIndex:ux_staff_users_username"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"`
	FullName     string    `json:"full_name" gorm:"size:255"`
	Role         string    `json:"role" gorm:"size:32;default:colaborador"`
	Active       bool      `json:"active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (StaffUser) TableName() string {
	return "staff_users"
}
