package destinations

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Destination is a city offered in the search form
type Destination struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Nom       string    `json:"nom" gorm:"type:varchar(120);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Destination) TableName() string { return "destinations" }

func (d *Destination) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
