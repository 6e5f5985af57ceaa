package model

// Staff role levels. Completion toggles and challenge editing are
// restricted to roles at or below RoleModerator.
const (
	RoleOwner     = 0
	RoleAdmin     = 1
	RoleModerator = 2
	RoleViewer    = 3
)

// User is the session owner resolved from /user/me.
type User struct {
	// ID is the server-side account identifier.
	ID string `json:"id"`

	// Login is the lowercase account login used in the websocket path.
	Login string `json:"login"`

	// DisplayName is the name shown in the UI.
	DisplayName string `json:"display_name"`

	// Role is the staff role level (see Role* constants).
	Role int `json:"role"`
}

// IsStaff reports whether the user may toggle completions and edit
// challenges.
func (u *User) IsStaff() bool {
	return u != nil && u.Role <= RoleModerator
}
