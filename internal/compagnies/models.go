package compagnies

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Compagnie is a bus operator
type Compagnie struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Nom       string    `json:"nom" gorm:"type:varchar(150);not null;index"`
	Telephone string    `json:"telephone" gorm:"type:varchar(30)"`
	Adresse   string    `json:"adresse" gorm:"type:varchar(255)"`
	LogoURL   string    `json:"logo_url" gorm:"type:varchar(500)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Compagnie) TableName() string { return "compagnies" }

func (c *Compagnie) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
