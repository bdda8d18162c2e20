package types

import (
	"fmt"
	"strings"
)

// Role is a member's role within a single project. Every authorization
// decision in the service layer reduces to one of the two predicates below.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleMember   Role = "MEMBER"
	RoleObserver Role = "OBSERVER"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanMutate reports whether the role may create or change project content.
// OBSERVER is read-only.
func (r Role) CanMutate() bool {
	return r == RoleAdmin || r == RoleMember
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleObserver:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))

	if !role.Valid() {
		return "", fmt.Errorf("invalid role %q", s)
	}

	return role, nil
}
