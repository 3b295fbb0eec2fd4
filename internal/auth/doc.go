// Package auth implements the authorization core of the back office.
//
// Access control is two-tiered. The first tier is a fixed numeric
// permission catalog: every resource category owns a hundreds-block of
// 4-digit ids, and within a block the action is encoded as an offset from
// the category's base id (read +0, update +1, delete +2, create +3).
// Groups collect granted catalog ids; users inherit their group's grants.
// The second tier is row-level client scoping: a group optionally restricts
// which Cliente rows (and records referencing them) its members may touch.
//
// Users whose role tag marks them as superusers bypass both tiers
// unconditionally. The decision engine itself is a pure, synchronous read
// path: it returns booleans and scopes, never errors, and the calling
// handler converts a deny into a 403 response.
//
// Example:
//
//	svc := auth.NewService(db)
//
//	if !svc.HasPermission(user, auth.BaseDespesas, auth.ActionUpdate) {
//	    // respond 403
//	}
//
//	scope := svc.ClientScope(user)
//	if !scope.Allows(despesa.ClienteID) {
//	    // respond 403
//	}
package auth
