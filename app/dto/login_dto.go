package dto

import "time"

// LoginRequest represents the request to authenticate a customer
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthCustomerDTO represents the authenticated customer in responses
type AuthCustomerDTO struct {
	ID          uint       `json:"id"`
	UUID        string     `json:"uuid"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	CompanyName *string    `json:"company_name,omitempty"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// TokenPairDTO carries a freshly issued token pair
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse represents the response to a successful login
type LoginResponse struct {
	Customer AuthCustomerDTO `json:"customer"`
	Tokens   TokenPairDTO    `json:"tokens"`
}

// RefreshTokenRequest represents the request to refresh a token pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse represents the response to a token refresh
type RefreshTokenResponse struct {
	Tokens TokenPairDTO `json:"tokens"`
}
