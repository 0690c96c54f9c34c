package avis

import (
	"time"

	"busbenin/internal/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Avis is a traveller review of a trajet, one per user and trajet
type Avis struct {
	ID          uuid.UUID      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Note        int            `json:"note" gorm:"not null"`
	Commentaire string         `json:"commentaire" gorm:"type:text"`
	UserID      uuid.UUID      `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_avis_user_trajet"`
	TrajetID    uuid.UUID      `json:"trajet_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_avis_user_trajet;index"`
	User        *users.Profile `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (Avis) TableName() string { return "avis" }

func (a *Avis) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Rating is the aggregate stored back on the trajet
type Rating struct {
	Note   float64 `json:"note"`
	NbAvis int64   `json:"nb_avis"`
}
