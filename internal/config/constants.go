package config

import "time"

const (
	// Tokens
	DefaultTokenTTL = 60 * time.Minute

	// Rooms
	DefaultRoomTTL = 24 * time.Hour

	// Profiles
	ProfileCacheTTL = 30 * time.Minute

	// Onboarding
	MinAge = 16
	MaxAge = 120
)
