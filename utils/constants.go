package utils

import (
	"time"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// OAuthStateTTL bounds how long an issued OAuth state token stays valid.
	// Abandoned connect flows are reclaimed after this window.
	OAuthStateTTL = 10 * time.Minute
)

// Platform publishing limits enforced by the adapters before transmission
const (
	// TwitterMaxChars is the tweet text limit; longer captions are truncated
	TwitterMaxChars = 280

	// LinkedInMaxImages caps how many images a single LinkedIn post may carry
	LinkedInMaxImages = 9

	// InstagramMaxCaptionChars is the Instagram caption limit
	InstagramMaxCaptionChars = 2200

	// PinterestMaxTitleChars is the pin title limit
	PinterestMaxTitleChars = 100
)
