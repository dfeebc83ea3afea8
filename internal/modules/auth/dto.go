package auth

import (
	"time"

	"servicehub/internal/domain"
)

type RegisterRequest struct {
	Name     string      `json:"name" binding:"required,min=2,max=120"`
	Email    string      `json:"email" binding:"required,email"`
	Phone    string      `json:"phone" binding:"omitempty,max=32"`
	Password string      `json:"password" binding:"required,min=8,max=72"`
	Role     domain.Role `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}
