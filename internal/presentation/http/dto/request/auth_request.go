package request

import "github.com/google/uuid"

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterUserRequest represents a cashier registration request
type RegisterUserRequest struct {
	BranchID        uuid.UUID `json:"branch_id" binding:"required"`
	Name            string    `json:"name" binding:"required,min=2,max=255"`
	Email           string    `json:"email" binding:"required,email"`
	Password        string    `json:"password" binding:"required,min=8"`
	PasswordConfirm string    `json:"password_confirm" binding:"required,eqfield=Password"`
	Capabilities    []string  `json:"capabilities"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}
