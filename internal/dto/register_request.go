// File: internal/dto/register_request.go
package dto

import (
	"strings"

	"inkwell/internal/service"
)

// swagger:model dto.RegisterRequest
type RegisterRequest struct {
	Username string `form:"username" validate:"min=3,max=100" example:"alice"`
	Email    string `form:"email" validate:"max=255,email" example:"alice@example.com"`
	Password string `form:"password" validate:"min=6" example:"Secret123!"`
}

// Normalize 驗證前先整理輸入
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = service.NormalizeEmail(r.Email)
}

var RegisterMessages = Messages{
	"Username":     "Username must be at least 3 characters",
	"Username.max": "Username must be at most 100 characters",
	"Email.max":    "Email must be at most 255 characters",
	"Email":        "Invalid email address",
	"Password":     "Password must be at least 6 characters",
}
