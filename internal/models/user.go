package models

import (
	"fmt"
	"time"
)

// DefaultAvatar is assigned to users registered without an avatar.
const DefaultAvatar = "avatars/default.jpg"

// User is an account of the store: either a shop responsible or a superuser.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FirstName string    `json:"first_name" gorm:"size:30;not null"`
	LastName  string    `json:"last_name" gorm:"size:40;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:254;not null"`
	Role      Role      `json:"role" gorm:"type:varchar(9);not null"`
	IsActive  bool      `json:"is_active" gorm:"not null"`
	Avatar    string    `json:"avatar" gorm:"size:255"`
	Password  string    `json:"-" gorm:"size:255;not null"` // bcrypt hash, never serialized
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

func (u *User) String() string {
	return u.FullName()
}
