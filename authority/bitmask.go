package authority

// Action is a bitmask over the five permitted operations of a menu resource.
type Action int

const (
	ActionCreate  Action = 1
	ActionRead    Action = 2
	ActionUpdate  Action = 4
	ActionDelete  Action = 8
	ActionApprove Action = 16

	ActionNone Action = 0
	ActionAll  Action = ActionCreate | ActionRead | ActionUpdate | ActionDelete | ActionApprove
)

func (m Action) Has(action Action) bool {
	return m&action == action
}

func (m Action) HasAny(actions Action) bool {
	return m&actions != 0
}

func (m Action) HasAll(actions Action) bool {
	return m&actions == actions
}
