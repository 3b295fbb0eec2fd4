package auth

import "github.com/gestao-obras/gestao-obras/internal/db/models"

// Role classifies an authenticated user for authorization purposes. It is
// computed once when the request is authenticated and carried on the
// Identity, instead of re-parsing the role tag at every check.
type Role int

const (
	// RoleSuperuser bypasses permission checks and client scoping.
	RoleSuperuser Role = iota
	// RoleOrdinaryWithGroup derives all rights from the linked group.
	RoleOrdinaryWithGroup
	// RoleOrdinaryNoGroup has no category permissions at all.
	RoleOrdinaryNoGroup
)

// ResolveRole classifies a user by role tag and group linkage.
func ResolveRole(u *models.Usuario) Role {
	switch {
	case u.IsSuperuser():
		return RoleSuperuser
	case u.GrupoID != nil:
		return RoleOrdinaryWithGroup
	default:
		return RoleOrdinaryNoGroup
	}
}

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	User models.Usuario
	Role Role
}

// IsSuperuser reports whether the identity bypasses all checks.
func (i *Identity) IsSuperuser() bool {
	return i.Role == RoleSuperuser
}
