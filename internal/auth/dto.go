package auth

import (
	"github.com/gentlecorp/inventory-service/internal/users"
	"github.com/gentlecorp/inventory-service/pkg/enums"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the token and user produced by a successful login.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	ExpiresIn   int            `json:"expires_in"`
	User        *users.UserDTO `json:"user"`
}

// RegisterRequest is the admin payload for provisioning a service account.
// When Password is omitted a temporary one is generated and returned once.
type RegisterRequest struct {
	Username string     `json:"username" validate:"required,min=3,max=64,alphanum"`
	Password string     `json:"password,omitempty" validate:"omitempty,min=12"`
	Role     enums.Role `json:"role" validate:"required"`
}

// RegisterResponse returns the created user and, when generated, the
// one-time temporary password.
type RegisterResponse struct {
	User         *users.UserDTO `json:"user"`
	TempPassword *string        `json:"temp_password,omitempty"`
}
