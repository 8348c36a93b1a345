package domain

import (
	"encoding/json"
	"fmt"
)

// Permission is the ordinal privilege tier of a user. Tiers are strictly
// ordered: an operator may grant at most its own tier when registering a
// new account.
type Permission int

const (
	PermissionUser Permission = iota
	PermissionAdmin
	PermissionRoot
)

var permissionNames = map[Permission]string{
	PermissionUser:  "user",
	PermissionAdmin: "admin",
	PermissionRoot:  "root",
}

// ParsePermission converts the wire representation into a Permission.
// The empty string maps to PermissionUser.
func ParsePermission(s string) (Permission, error) {
	switch s {
	case "", "user":
		return PermissionUser, nil
	case "admin":
		return PermissionAdmin, nil
	case "root":
		return PermissionRoot, nil
	}
	return PermissionUser, fmt.Errorf("%w: %q", ErrUnknownPermission, s)
}

func (p Permission) String() string {
	if name, ok := permissionNames[p]; ok {
		return name
	}
	return "user"
}

// CanGrant reports whether an operator holding p may create an account with
// the requested permission. Comparison is on the ordinal, not equality.
func (p Permission) CanGrant(requested Permission) bool {
	return requested <= p
}

func (p Permission) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Permission) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePermission(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
