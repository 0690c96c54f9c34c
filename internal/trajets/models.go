package trajets

import (
	"time"

	"busbenin/internal/compagnies"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trajet is a route operated by a compagnie, departing at fixed horaires
type Trajet struct {
	ID          uuid.UUID             `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Depart      string                `json:"depart" gorm:"type:varchar(120);not null;index"`
	Arrivee     string                `json:"arrivee" gorm:"type:varchar(120);not null;index"`
	Prix        int64                 `json:"prix" gorm:"not null"`
	Horaires    []string              `json:"horaires" gorm:"serializer:json;type:text"`
	Gare        string                `json:"gare" gorm:"type:varchar(200)"`
	Note        float64               `json:"note" gorm:"not null;default:0"`
	NbAvis      int                   `json:"nb_avis" gorm:"not null;default:0"`
	CompagnieID uuid.UUID             `json:"compagnie_id" gorm:"type:varchar(36);not null;index"`
	Compagnie   *compagnies.Compagnie `json:"compagnie,omitempty" gorm:"foreignKey:CompagnieID"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func (Trajet) TableName() string { return "trajets" }

func (t *Trajet) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// HasHoraire reports whether the trajet departs at h (HH:MM)
func (t *Trajet) HasHoraire(h string) bool {
	for _, x := range t.Horaires {
		if x == h {
			return true
		}
	}
	return false
}

// Summary is the "Depart → Arrivee" label used in receipts and emails
func (t *Trajet) Summary() string {
	return t.Depart + " → " + t.Arrivee
}

// CompagnieNom returns the operator name or "" when not loaded
func (t *Trajet) CompagnieNom() string {
	if t.Compagnie == nil {
		return ""
	}
	return t.Compagnie.Nom
}
