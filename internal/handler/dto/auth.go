// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/taskhive/taskhive/internal/service"

// SignupRequest represents the request body for registering a user.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse represents an established session. The password never
// appears here, hashed or otherwise.
type SessionResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// MessageResponse carries a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToSessionResponse converts a service session to its API shape.
func ToSessionResponse(s *service.Session) *SessionResponse {
	return &SessionResponse{
		ID:    s.UserID,
		Name:  s.Name,
		Email: s.Email,
		Token: s.Token,
	}
}
