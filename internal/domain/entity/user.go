package entity

import "time"

// Role is the single role a user holds.
type Role string

const (
	RoleUser   Role = "User"
	RoleSeller Role = "Seller"
	RoleAdmin  Role = "Admin"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleUser, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// AccountStatus flags whether the account is usable.
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
)

// User is the identity record. PasswordHash is empty for federated-login
// accounts and is never serialized to clients.
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	Role          Role
	AccountStatus AccountStatus
	Verified      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Profile is the dependent record created alongside a User on signup.
type Profile struct {
	ID        string
	UserID    string
	FullName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
