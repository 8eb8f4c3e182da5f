package access

import "strings"

// Capability is a bit set of what an actor may do with leave records.
type Capability uint8

const (
	ViewSelf Capability = 1 << iota
	EditSelf
	DeleteSelf
	ViewDepartment
	Approve
	ManageAll
)

// Resource is the casbin object that carries leave capabilities.
const Resource = "leave"

var capabilityActions = map[string]Capability{
	"view_self":       ViewSelf,
	"edit_self":       EditSelf,
	"delete_self":     DeleteSelf,
	"view_department": ViewDepartment,
	"approve":         Approve,
	"manage_all":      ManageAll,
}

// ParseAction maps a permission action to its capability.
func ParseAction(action string) (Capability, bool) {
	c, ok := capabilityActions[strings.ToLower(strings.TrimSpace(action))]
	return c, ok
}

func (c Capability) Has(flag Capability) bool {
	return flag != 0 && c&flag == flag
}

// Any reports whether at least one of flags is present.
func (c Capability) Any(flags ...Capability) bool {
	for _, f := range flags {
		if c.Has(f) {
			return true
		}
	}
	return false
}

func (c Capability) Actions() []string {
	out := make([]string, 0, len(capabilityActions))
	for _, name := range []string{"view_self", "edit_self", "delete_self", "view_department", "approve", "manage_all"} {
		if c.Has(capabilityActions[name]) {
			out = append(out, name)
		}
	}
	return out
}
