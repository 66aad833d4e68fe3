package domain

import "time"

// User is the domain model for account holders. Identity key is the email
// address, normalized to lowercase when the account is created.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
