// File: internal/auth/model.go
package auth

import (
	"local_services_backend/internal/session"
)

// SignUpRequest is the email/password sign-up form.
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// PasswordResetRequest asks for a reset link.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SignUpResponse is returned after a successful sign-up.
type SignUpResponse struct {
	User     session.Identity `json:"user"`
	Redirect string           `json:"redirect"`
}

// SessionResponse describes the caller's current session.
type SessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	User          *session.Identity `json:"user,omitempty"`
	State         session.State     `json:"state"`
	Redirect      string            `json:"redirect"`
}
