// File: internal/dto/login_request.go
package dto

import "inkwell/internal/service"

// swagger:model dto.LoginRequest
type LoginRequest struct {
	Email    string `form:"email" validate:"required,email" example:"alice@example.com"`
	Password string `form:"password" validate:"required" example:"Secret123!"`
}

func (r *LoginRequest) Normalize() {
	r.Email = service.NormalizeEmail(r.Email)
}

var LoginMessages = Messages{
	"Email.required":    "Email and password are required",
	"Password.required": "Email and password are required",
	"Email.email":       "Invalid email address",
}
