package auth

// Action is a CRUD action resolved against a permission base id.
type Action int

// The four actions a catalog block encodes.
const (
	ActionRead Action = iota
	ActionUpdate
	ActionDelete
	ActionCreate
)

// actionOffsets is the fixed module-wide base-id offset table.
var actionOffsets = map[Action]uint{
	ActionRead:   0,
	ActionUpdate: 1,
	ActionDelete: 2,
	ActionCreate: 3,
}

// Offset returns the catalog id offset for the action and whether the
// action is known.
func (a Action) Offset() (uint, bool) {
	off, ok := actionOffsets[a]
	return off, ok
}

// String implements fmt.Stringer for log output.
func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	case ActionCreate:
		return "create"
	}

	return "unknown"
}
