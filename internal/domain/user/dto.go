package user

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// CreateUserRequest is used by administrators to provision accounts.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required,max=255"`
	Role     string `json:"role" binding:"required,oneof=admin associate"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin associate"`
}

// MeResponse is the authenticated profile plus its derived capability flags.
type MeResponse struct {
	User           *User `json:"user"`
	IsAdmin        bool  `json:"is_admin"`
	CanDelete      bool  `json:"can_delete"`
	CanManageUsers bool  `json:"can_manage_users"`
}
