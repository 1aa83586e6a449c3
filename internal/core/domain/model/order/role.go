package order

import (
	"fmt"
	"strings"

	"orderflow/internal/pkg/errs"
)

// Role is the staff or customer category acting on an order. It is assigned
// by the auth collaborator; this package only reads it.
type Role int

const (
	// UnknownRole is the zero value. It is allowed no transitions.
	UnknownRole Role = iota
	Admin
	Kitchen
	Delivery
	Waiter
	Client
)

type roleInfo struct {
	name      string
	authority string
}

var roles = map[Role]roleInfo{
	Admin:    {name: "Admin", authority: "ROLE_A"},
	Kitchen:  {name: "Kitchen", authority: "ROLE_K"},
	Delivery: {name: "Delivery", authority: "ROLE_D"},
	Waiter:   {name: "Waiter", authority: "ROLE_W"},
	Client:   {name: "Client", authority: "ROLE_C"},
}

// Roles lists every known role.
func Roles() []Role {
	return []Role{Admin, Kitchen, Delivery, Waiter, Client}
}

// ParseRole accepts the authority form issued by the auth service
// ("ROLE_K"), the bare letter ("K") or the name ("kitchen"), ignoring case.
func ParseRole(s string) (Role, error) {
	in := strings.ToUpper(strings.TrimSpace(s))
	for _, r := range Roles() {
		info := roles[r]
		if in == info.authority || in == strings.TrimPrefix(info.authority, "ROLE_") || in == strings.ToUpper(info.name) {
			return r, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

func (r Role) String() string {
	if info, ok := roles[r]; ok {
		return info.name
	}
	return "Unknown"
}

// Authority returns the "ROLE_X" form, empty for UnknownRole.
func (r Role) Authority() string {
	return roles[r].authority
}

// Validate rejects UnknownRole and out-of-range values.
func (r Role) Validate() error {
	if _, ok := roles[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a known role", int(r)))
	}
	return nil
}
