package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Role string

const (
	RoleEmployee Role = "Employee"
	RoleLeader   Role = "Leader"
	RoleDirector Role = "Director"
)

// roleOrder lists every role from least to most privileged. A role's rank is
// its position here; new roles must be inserted at the right place.
var roleOrder = []Role{RoleEmployee, RoleLeader, RoleDirector}

// Roles returns all known roles in ascending rank.
func Roles() []Role {
	out := make([]Role, len(roleOrder))
	copy(out, roleOrder)
	return out
}

func (r Role) rank() int {
	for i, known := range roleOrder {
		if known == r {
			return i
		}
	}
	return -1
}

func (r Role) Valid() bool { return r.rank() >= 0 }

func (r Role) String() string { return string(r) }

// ParseRole accepts a role name in any letter case.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	for _, known := range roleOrder {
		if strings.EqualFold(string(known), s) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// CompareRoles returns -1, 0 or +1 when a ranks below, equal to or above b.
// Both roles must be valid.
func CompareRoles(a, b Role) int {
	ra, rb := a.rank(), b.rank()
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}

// CanManage reports whether an actor holding r may create, edit or delete a
// record holding target. Unknown roles never manage and are never managed.
func (r Role) CanManage(target Role) bool {
	if !r.Valid() || !target.Valid() {
		return false
	}
	return CompareRoles(r, target) >= 0
}

// UnmarshalJSON folds known role names to their canonical spelling. Unknown
// names are kept as-is so validation can reject them with ErrInvalidRole.
func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if parsed, err := ParseRole(s); err == nil {
		*r = parsed
		return nil
	}
	*r = Role(s)
	return nil
}
