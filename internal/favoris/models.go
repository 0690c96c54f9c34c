package favoris

import (
	"time"

	"busbenin/internal/trajets"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Favori struct {
	ID        uuid.UUID       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    uuid.UUID       `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_favoris_user_trajet"`
	TrajetID  uuid.UUID       `json:"trajet_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_favoris_user_trajet"`
	Trajet    *trajets.Trajet `json:"trajet,omitempty" gorm:"foreignKey:TrajetID"`
	CreatedAt time.Time       `json:"created_at"`
}

func (Favori) TableName() string { return "favoris" }

func (f *Favori) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
