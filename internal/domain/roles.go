package domain

// Role is the closed set of operator roles. Any value outside the enumeration
// is treated as unauthenticated by the HTTP auth gate.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleEditor Role = "Editor"
	RoleViewer Role = "Viewer"
)

// Roles lists every valid role, in descending privilege order.
var Roles = []Role{RoleAdmin, RoleEditor, RoleViewer}

// Valid reports whether r is a member of the role enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// ParseRole returns the Role matching s, or ("", false) when s is not a
// member of the enumeration. Matching is exact; roles are case-sensitive.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	if r.Valid() {
		return r, true
	}
	return "", false
}
