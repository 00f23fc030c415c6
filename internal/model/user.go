package model

import (
	"strings"
	"time"
)

// Role is the closed set of account types. A user's role is chosen at
// registration and never changes afterwards.
type Role string

const (
	RoleCollector   Role = "collector"   // creates waste listings
	RoleTransporter Role = "transporter" // schedules pickup and delivery
	RoleBuyer       Role = "buyer"       // purchases listed materials
)

// ParseRole normalizes and validates a role string. The second return
// value is false for anything outside the three known roles.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCollector:
		return RoleCollector, true
	case RoleTransporter:
		return RoleTransporter, true
	case RoleBuyer:
		return RoleBuyer, true
	}
	return "", false
}

// User represents an application user record as stored in the `users`
// table. Optional contact fields are pointers so that an absent value
// can be told apart from an empty one. Handlers define separate
// response types with JSON tags; the password hash never leaves the
// repository/handler boundary.
//
// Fields:
//  ID              - primary key identifier.
//  Username        - unique login name.
//  Email           - unique email address.
//  PasswordHash    - bcrypt hashed password.
//  FullName        - display name.
//  Phone/Address/City - optional contact details.
//  Role            - account role, immutable after registration.
//  ProfileComplete - whether the user finished filling in their profile.
//  CreatedAt       - timestamp of creation.
type User struct {
	ID              uint64    // users.id
	Username        string    // users.username
	Email           string    // users.email
	PasswordHash    string    // users.password_hash
	FullName        string    // users.full_name
	Phone           *string   // users.phone (nullable)
	Address         *string   // users.address (nullable)
	City            *string   // users.city (nullable)
	Role            Role      // users.role
	ProfileComplete bool      // users.profile_complete
	CreatedAt       time.Time // users.created_at
}
