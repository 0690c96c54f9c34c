package users

import "time"

type ProfileResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name"`
	Admin       bool      `json:"admin"`
	CompagnieID *string   `json:"compagnie_id,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Profile) ToResponse() ProfileResponse {
	resp := ProfileResponse{
		ID:        p.ID.String(),
		Email:     p.Email,
		Username:  p.Username,
		FullName:  p.FullName,
		Admin:     p.Admin,
		Role:      p.Role(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.CompagnieID != nil {
		cid := p.CompagnieID.String()
		resp.CompagnieID = &cid
	}
	return resp
}
