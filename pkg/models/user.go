package models

import (
	"github.com/Avanquish/DoughNation-sub000/pkg/roles"
)

type User struct {
	ID           int        `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Fullname     string     `json:"fullname" db:"fullname"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         roles.Role `json:"role" db:"role"`
}

type CreateUserRequest struct {
	Username string     `json:"username" binding:"required"`
	Fullname string     `json:"fullname"`
	Password string     `json:"password" binding:"required"`
	Role     roles.Role `json:"role" binding:"required"`
}

func (u *User) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   u.ID,
		ResourceType: "user",
	}
}
