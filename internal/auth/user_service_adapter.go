package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UserServiceAdapter resolves a profile's contact details for notifications
// without the reservations package importing auth or users.
type UserServiceAdapter struct {
	repo Repository
}

func NewUserServiceAdapter(repo Repository) *UserServiceAdapter {
	return &UserServiceAdapter{repo: repo}
}

// GetContact returns the profile email and display name
func (usa *UserServiceAdapter) GetContact(ctx context.Context, userID uuid.UUID) (email, name string, err error) {
	profile, err := usa.repo.GetProfileByID(ctx, userID.String())
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch profile %s: %w", userID, err)
	}
	return profile.Email, profile.DisplayName(), nil
}
