package dto

import "time"

// StartConnectRequest represents the request to begin connecting a platform account
type StartConnectRequest struct {
	CustomerID uint   `json:"-"`
	Platform   string `json:"-"`
}

// StartConnectResponse carries the provider URL to redirect the customer to
type StartConnectResponse struct {
	AuthorizeURL string `json:"authorize_url"`
}

// CompleteConnectRequest represents the provider callback parameters
type CompleteConnectRequest struct {
	State string `json:"-"`
	Code  string `json:"-"`
	Error string `json:"-"`
}

// SocialAccountDTO represents a connected account in responses. Token
// material is never exposed here.
type SocialAccountDTO struct {
	UUID           string     `json:"uuid"`
	Platform       string     `json:"platform"`
	AccountID      string     `json:"account_id"`
	AccountName    string     `json:"account_name"`
	IsActive       bool       `json:"is_active"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ListSocialAccountsResponse represents the connected-account listing
type ListSocialAccountsResponse struct {
	Accounts []SocialAccountDTO `json:"accounts"`
}

// DisconnectAccountRequest represents the request to disconnect an account
type DisconnectAccountRequest struct {
	CustomerID uint   `json:"-"`
	Platform   string `json:"-"`
}
