package constants

// Role is carried in admin bearer tokens.
type Role string

const (
	RoleAdmin Role = "admin"
)

func (r Role) String() string { return string(r) }
