package models

import (
	"agenthub/internal/access"
	"agenthub/internal/constants"
)

// User doubles as the profile row holding the caller role
type User struct {
	Email    string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string      `gorm:"type:varchar(255);not null" json:"-"`
	Role     access.Role `gorm:"type:varchar(32);not null;default:non_client" json:"role"`
	Base
}

func (User) TableName() string { return constants.UsersTable }

func NewUser(email, password string, role access.Role) *User {
	return &User{
		Email:    email,
		Password: password,
		Role:     role,
		Base:     NewBase(),
	}
}
