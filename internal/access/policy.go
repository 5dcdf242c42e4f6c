// Package access decides which callers may open a chat with an agent.
package access

import "fmt"

// Level is the access tier configured on an agent
type Level string

const (
	LevelPublic    Level = "public"
	LevelNonClient Level = "non_client"
	LevelPartner   Level = "partner"
	LevelAdmin     Level = "admin"
)

// Role is the caller role stored on the user profile. RoleNone is used
// for anonymous callers and for users without a profile row.
type Role string

const (
	RoleNone      Role = ""
	RoleNonClient Role = "non_client"
	RolePartner   Role = "partner"
	RoleAdmin     Role = "admin"
)

// Levels lists every tier, in ascending order of restriction.
var Levels = []Level{LevelPublic, LevelNonClient, LevelPartner, LevelAdmin}

// Roles lists every assignable role.
var Roles = []Role{RoleNonClient, RolePartner, RoleAdmin}

func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown access level: %q", s)
}

func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleNone, nil
	}
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return RoleNone, fmt.Errorf("unknown role: %q", s)
}

// CanAccess evaluates the access table. Public agents are anonymous-only:
// an authenticated caller, admins included, is refused.
func CanAccess(level Level, authenticated bool, role Role) bool {
	switch level {
	case LevelPublic:
		return !authenticated
	case LevelNonClient:
		return authenticated && (role == RoleNonClient || role == RoleAdmin)
	case LevelPartner:
		return role == RolePartner || role == RoleAdmin
	case LevelAdmin:
		return role == RoleAdmin
	default:
		return false
	}
}

// Identity is the caller as seen by the access table
type Identity struct {
	UserID        string
	Email         string
	Role          Role
	Authenticated bool
}

// Anonymous is the identity of a caller without a valid token
var Anonymous = Identity{}

func (i Identity) CanAccess(level Level) bool {
	return CanAccess(level, i.Authenticated, i.Role)
}

// Filter keeps the items whose level the caller may access, preserving order.
func Filter[T any](identity Identity, items []T, level func(T) Level) []T {
	visible := make([]T, 0, len(items))
	for _, item := range items {
		if identity.CanAccess(level(item)) {
			visible = append(visible, item)
		}
	}
	return visible
}
