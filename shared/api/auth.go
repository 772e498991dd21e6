package api

import "github.com/medina-starter/accounts/shared/validation"

// Request DTOs

type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email,max=320"`
	Password     string `json:"password" validate:"required,maxbytes=72"`
	Name         string `json:"name" validate:"required,max=120"`
	MobileNumber string `json:"mobileNumber,omitempty" validate:"omitempty,max=32,phone"`
	Address      string `json:"address,omitempty" validate:"omitempty,max=500"`
}

// Sanitize strips markup from the free-text fields.
func (r *RegisterRequest) Sanitize() {
	r.Name = validation.Sanitize(r.Name)
	r.Address = validation.Sanitize(r.Address)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CheckEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Response DTOs

type ConfirmResponse struct {
	Status string `json:"status"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
}

type CheckEmailResponse struct {
	Exists bool `json:"exists"`
}
