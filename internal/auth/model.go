// File: internal/auth/model.go
package auth

import (
	"realty_bureau_backend/internal/shared"
	"realty_bureau_backend/internal/user"
)

// SignupRequest defines the structure for password signups.
type SignupRequest struct {
	Name            string `json:"name" binding:"required,notblank,max=100"`
	Email           string `json:"email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,password,max=72"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// LoginRequest defines the structure for login requests.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest carries the ID token returned by Google Identity Services.
type GoogleLoginRequest struct {
	Credential string `json:"credential" binding:"required,notblank"`
}

// AuthResponse is the body of every successful sign-in.
type AuthResponse struct {
	shared.TokenResponse
	User user.UserResponse `json:"user"`
}
