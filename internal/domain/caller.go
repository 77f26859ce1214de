package domain

// Caller is the identity resolved for the duration of one request, derived
// from either a bearer token or a browser session. It is passed explicitly
// into service calls instead of being read from ambient request state.
type Caller struct {
	UserID   int32
	Username string
	Email    string
	Role     Role
}

func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
