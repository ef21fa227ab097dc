package models

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

type StaffUser struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *StaffUser) Validate() error {
	if len(strings.TrimSpace(u.Name)) < 2 {
		return errors.New("name too short")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return errors.New("invalid email")
	}
	if u.Role == "" {
		u.Role = RoleStaff
	}
	if u.Role != RoleStaff && u.Role != RoleAdmin {
		return errors.New("invalid role")
	}
	return nil
}
