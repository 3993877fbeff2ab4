// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role is the role string the upstream API returns with a principal.
type Role string

const (
	// RoleAdmin is returned for central administrators.
	RoleAdmin Role = "admin"
	// RoleVendor is returned for vendor partners.
	RoleVendor Role = "vendor"
	// RoleEmployee is returned for field employees.
	RoleEmployee Role = "employee"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}
