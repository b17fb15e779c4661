package user

import "time"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleAssociate Role = "associate"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleAssociate
}

type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	Role         Role      `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Actor is the authenticated identity performing an operation. It is passed
// explicitly into every service call rather than read from ambient state.
type Actor struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// CanDelete reports whether the actor may permanently delete records.
func (a *Actor) CanDelete() bool {
	return a.IsAdmin()
}

// CanManageUsers reports whether the actor may administer user accounts.
func (a *Actor) CanManageUsers() bool {
	return a.IsAdmin()
}
