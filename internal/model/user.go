package model

import (
	"errors"
	"time"
)

// User is an operator of the system. Base commanders are bound to one base.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	FullName     string    `json:"full_name" db:"full_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	BaseID       *int64    `json:"base_id,omitempty" db:"base_id"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Roles.
const (
	RoleAdmin            = "admin"
	RoleBaseCommander    = "base_commander"
	RoleLogisticsOfficer = "logistics_officer"
)

// MinPasswordLength is the shortest password accepted for an account.
const MinPasswordLength = 8

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleBaseCommander, RoleLogisticsOfficer:
		return true
	}
	return false
}

// RoleIn reports whether role is one of allowed. Unknown roles never match.
func RoleIn(role string, allowed ...string) bool {
	if !ValidRole(role) {
		return false
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// ValidatePassword checks password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
