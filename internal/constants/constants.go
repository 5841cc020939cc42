package constants

import "time"

// Session
const (
	SessionCookieName = "token"
	SessionLifetime   = 30 * 24 * time.Hour
	ContextKeyUserID  = "user_id"
)

// Validation limits
const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MinPasswordLength = 6
	MaxTitleLength    = 100
)
