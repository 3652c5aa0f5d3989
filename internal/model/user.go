package model

import "time"

// Identity is an authenticated user as resolved by the identity service.
type Identity struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// Profile is a row of the profiles table, keyed by the identity id.
type Profile struct {
	UserID     string     `json:"user_id"`
	Email      *string    `json:"email"`
	ProviderID *string    `json:"provider_id"`
	CreatedAt  *time.Time `json:"created_at"`
}

// DebugAuthResponse is returned by the debug-auth endpoint.
type DebugAuthResponse struct {
	Message      string         `json:"message"`
	UserID       string         `json:"user_id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// MessageResponse is a bare message body.
type MessageResponse struct {
	Message string `json:"message"`
}
