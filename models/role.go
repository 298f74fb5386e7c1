package models

import "strings"

// Role is one of the capacities a user can operate under.
type Role string

const (
	RoleSeeker   Role = "BUSCADOR"
	RoleProvider Role = "PRESTADOR"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole accepts any casing of a known role name.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleSeeker, RoleProvider, RoleAdmin:
		return r, true
	}
	return "", false
}
