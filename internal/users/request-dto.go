package users

import "busbenin/internal/shared/utils/pagination"

type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=2,max=100"`
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=200"`
}

// UpdateAccessRequest changes the admin flag or the company assignment.
// An empty compagnie_id detaches the profile from its company.
type UpdateAccessRequest struct {
	Admin       *bool   `json:"admin"`
	CompagnieID *string `json:"compagnie_id" validate:"omitempty,uuid"`
}

type ListProfilesQuery struct {
	pagination.Query
	Search string `form:"search"`
	Role   string `form:"role" binding:"omitempty,oneof=USER COMPANY ADMIN"`
}
