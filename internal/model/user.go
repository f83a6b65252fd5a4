package model

import (
	"fmt"
	"slices"
)

// SystemActorID is used for actions performed by operators outside of an
// authenticated request, e.g. bootstrapping the first admin from the CLI.
const SystemActorID int64 = 0

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

func (r Role) Validate() error {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return nil
	default:
		return fmt.Errorf("invalid role: %q", string(r))
	}
}

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Roles        []Role
}

// HasAnyRole reports whether the user holds at least one of roles.
func (u User) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if slices.Contains(u.Roles, r) {
			return true
		}
	}
	return false
}
