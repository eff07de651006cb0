package domain

import "strings"

type Role int

const (
	RoleGuest Role = iota
	RoleCustomer
	RoleAdmin
)

// ParseRole maps the stored role column (USER | ADMIN) onto Role.
func ParseRole(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin
	case "USER", "CUSTOMER":
		return RoleCustomer
	default:
		return RoleGuest
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleCustomer:
		return "USER"
	default:
		return "GUEST"
	}
}

// Identity is the resolved caller. The core trusts it as given.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

func Guest() Identity { return Identity{Role: RoleGuest} }

func (i Identity) Authenticated() bool {
	return i.UserID != "" && i.Role != RoleGuest
}

func (i Identity) IsAdmin() bool {
	return i.Authenticated() && i.Role == RoleAdmin
}

// CanManage reports whether who may modify or delete a record owned by ownerID.
func CanManage(who Identity, ownerID string) bool {
	if !who.Authenticated() {
		return false
	}
	return who.IsAdmin() || who.UserID == ownerID
}
