package auth

import "servicehub/internal/domain"

var (
	ErrInvalidCredentials = domain.NewError(domain.KindUnauthorized, "invalid email or password")
	ErrEmailAlreadyExists = domain.NewError(domain.KindConflict, "email already registered")
	ErrRoleNotAllowed     = domain.Validation("role must be customer or host")
)
