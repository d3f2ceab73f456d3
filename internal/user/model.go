package user

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest payload of sign up.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" example:"maria"`
	Email    string `json:"email"    example:"maria@example.com"`
	Password string `json:"password" example:"s3cret-pass"`
}

// LoginRequest payload of sign in.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"    example:"maria@example.com"`
	Password string `json:"password" example:"s3cret-pass"`
}

// TokenResponse carries the bearer token for subsequent calls.
// swagger:model TokenResponse
type TokenResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
