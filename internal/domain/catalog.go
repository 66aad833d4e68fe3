package domain

// Tag labels employees. Each tag belongs to exactly one user.
type Tag struct {
	ID     string
	UserID string
	Name   string
}

// Department represents an organizational unit an employee belongs to.
// Owned per-user like tags.
type Department struct {
	ID     string
	UserID string
	Name   string
}
