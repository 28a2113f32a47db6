package dto

import "time"

// CreateAdRequest represents the request to create and publish a paid ad
type CreateAdRequest struct {
	CustomerID   uint    `json:"-"`
	Platform     string  `json:"platform" validate:"required,oneof=facebook instagram"`
	Name         string  `json:"name" validate:"required,min=1,max=255"`
	CreativeText string  `json:"creative_text" validate:"required"`
	ImageURL     *string `json:"image_url,omitempty" validate:"omitempty,url"`
	LinkURL      *string `json:"link_url,omitempty" validate:"omitempty,url"`
	DailyBudget  uint64  `json:"daily_budget" validate:"required,min=1"` // minor currency units
}

// CreateAdResponse represents the response to ad creation
type CreateAdResponse struct {
	Ad AdDTO `json:"ad"`
}

// GetAdRequest represents the request to fetch one ad
type GetAdRequest struct {
	UUID       string `json:"-"`
	CustomerID uint   `json:"-"`
}

// ListAdsRequest represents the request to list ads
type ListAdsRequest struct {
	CustomerID uint   `json:"-"`
	Platform   string `json:"-"`
	Status     string `json:"-"`
	Page       int    `json:"-"`
	PageSize   int    `json:"-"`
}

// AdDTO represents a paid ad in responses
type AdDTO struct {
	UUID         string     `json:"uuid"`
	Platform     string     `json:"platform"`
	Name         string     `json:"name"`
	CreativeText string     `json:"creative_text"`
	ImageURL     *string    `json:"image_url,omitempty"`
	LinkURL      *string    `json:"link_url,omitempty"`
	DailyBudget  uint64     `json:"daily_budget"`
	Status       string     `json:"status"`
	ExternalAdID *string    `json:"external_ad_id,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// ListAdsResponse represents the ad listing
type ListAdsResponse struct {
	Ads      []AdDTO `json:"ads"`
	Total    int64   `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}
