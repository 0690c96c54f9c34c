package users

import (
	"time"

	"busbenin/internal/shared/identity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is an account. Company staff carry a compagnie_id, administrators the admin flag.
type Profile struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email       string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password    string     `json:"-" gorm:"not null"`
	Username    string     `json:"username" gorm:"type:varchar(100)"`
	FullName    string     `json:"full_name" gorm:"type:varchar(200)"`
	Admin       bool       `json:"admin" gorm:"not null;default:false"`
	CompagnieID *uuid.UUID `json:"compagnie_id,omitempty" gorm:"type:varchar(36);index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Role is derived, never stored
func (p *Profile) Role() string {
	return identity.RoleFor(p.Admin, p.CompagnieID)
}

// DisplayName prefers the full name, then the username, then the email
func (p *Profile) DisplayName() string {
	switch {
	case p.FullName != "":
		return p.FullName
	case p.Username != "":
		return p.Username
	default:
		return p.Email
	}
}
