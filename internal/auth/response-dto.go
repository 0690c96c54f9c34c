package auth

import "busbenin/internal/users"

// represents the authentication response
type AuthResponse struct {
	User         users.ProfileResponse `json:"user"`
	AccessToken  string                `json:"access_token"`
	RefreshToken string                `json:"refresh_token"`
	ExpiresIn    int64                 `json:"expires_in"`
}
