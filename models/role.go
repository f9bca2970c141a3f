// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Role is the closed set of authorization roles an account can hold.
type Role string

const (
	// RoleUser is a regular student account.
	RoleUser Role = "user"
	// RoleAdmin is a platform administrator.
	RoleAdmin Role = "admin"
)

// Roles lists every known role.
var Roles = []Role{RoleUser, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// AccountStatus is the lifecycle status of an account.
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
)

// Valid reports whether s is one of the known statuses.
func (s AccountStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

func (s AccountStatus) String() string {
	return string(s)
}
