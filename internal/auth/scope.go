package auth

import "sort"

// Scope is a resolved client scope: either unrestricted (all clients
// visible) or an explicit, possibly empty, set of accessible client ids.
// An empty restricted scope means zero visible clients; callers must
// short-circuit list queries to an empty result instead of querying.
type Scope struct {
	unrestricted bool
	ids          map[uint]struct{}
}

// UnrestrictedScope returns the scope that allows every client.
func UnrestrictedScope() *Scope {
	return &Scope{unrestricted: true}
}

// RestrictedScope returns a scope allowing exactly the given client ids.
func RestrictedScope(ids []uint) *Scope {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return &Scope{ids: set}
}

// Unrestricted reports whether the scope allows every client.
func (s *Scope) Unrestricted() bool {
	return s.unrestricted
}

// Empty reports whether the scope allows no client at all.
func (s *Scope) Empty() bool {
	return !s.unrestricted && len(s.ids) == 0
}

// Allows reports whether the given client id is inside the scope.
func (s *Scope) Allows(clienteID uint) bool {
	if s.unrestricted {
		return true
	}

	_, ok := s.ids[clienteID]

	return ok
}

// AllowsPtr is the Allows variant for records with an optional client
// reference. Records not linked to any client are not scope-restricted.
func (s *Scope) AllowsPtr(clienteID *uint) bool {
	if clienteID == nil {
		return true
	}

	return s.Allows(*clienteID)
}

// IDs returns the allowed client ids in ascending order. It returns nil
// for an unrestricted scope.
func (s *Scope) IDs() []uint {
	if s.unrestricted {
		return nil
	}

	out := make([]uint, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
