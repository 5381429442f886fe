package models

// PermissionLevel is a total order, not a capability set: a grant at level L
// satisfies every required level ≤ L.
type PermissionLevel int

const (
	PermissionNone  PermissionLevel = 0
	PermissionView  PermissionLevel = 1
	PermissionEdit  PermissionLevel = 2
	PermissionAdmin PermissionLevel = 3
)

func (l PermissionLevel) Valid() bool {
	return l >= PermissionNone && l <= PermissionAdmin
}

func (l PermissionLevel) String() string {
	switch l {
	case PermissionNone:
		return "none"
	case PermissionView:
		return "view"
	case PermissionEdit:
		return "edit"
	case PermissionAdmin:
		return "admin"
	}
	return "unknown"
}

// ParsePermissionLevel maps the wire names back to levels. Unknown input
// reports ErrUnknownPermissionLevel.
func ParsePermissionLevel(s string) (PermissionLevel, error) {
	switch s {
	case "none":
		return PermissionNone, nil
	case "view":
		return PermissionView, nil
	case "edit":
		return PermissionEdit, nil
	case "admin":
		return PermissionAdmin, nil
	}
	return PermissionNone, ErrUnknownPermissionLevel
}

// Grant is an explicit (resource, identity) permission record. Ownership is
// never stored as a grant; the engine checks it separately.
type Grant struct {
	ResourceID string          `json:"resource_id"`
	Identity   string          `json:"identity"`
	Level      PermissionLevel `json:"level"`
}
