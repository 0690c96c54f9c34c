package reservations

import (
	"strings"
	"time"

	"busbenin/internal/trajets"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reservation is a booking of places on one departure of a trajet
type Reservation struct {
	ID                   uuid.UUID       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID               uuid.UUID       `json:"user_id" gorm:"type:varchar(36);not null;index"`
	TrajetID             uuid.UUID       `json:"trajet_id" gorm:"type:varchar(36);not null;index"`
	Trajet               *trajets.Trajet `json:"trajet,omitempty" gorm:"foreignKey:TrajetID"`
	NbPlaces             int             `json:"nb_places" gorm:"not null"`
	DateVoyage           string          `json:"date_voyage" gorm:"type:varchar(10);not null;index"`
	Horaire              string          `json:"horaire" gorm:"type:varchar(5);not null"`
	NomPassager          string          `json:"nom_passager" gorm:"type:varchar(200);not null"`
	TelephonePassager    string          `json:"telephone_passager" gorm:"type:varchar(20);not null"`
	EmailPassager        string          `json:"email_passager,omitempty" gorm:"type:varchar(255)"`
	MoyenPaiement        MoyenPaiement   `json:"moyen_paiement" gorm:"type:varchar(20);not null"`
	MontantTotal         int64           `json:"montant_total" gorm:"not null"`
	Statut               Statut          `json:"statut" gorm:"type:varchar(20);not null;index"`
	StatutPaiement       StatutPaiement  `json:"statut_paiement" gorm:"type:varchar(20);not null"`
	FedapayTransactionID *string         `json:"fedapay_transaction_id,omitempty" gorm:"type:varchar(64);index"`
	ReconcileAttempts    int             `json:"reconcile_attempts" gorm:"not null"`
	NextReconcileAt      *time.Time      `json:"next_reconcile_at,omitempty" gorm:"index"`
	LastReconcileError   *string         `json:"last_reconcile_error,omitempty" gorm:"type:text"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func (Reservation) TableName() string { return "reservations" }

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ShortID is the first 8 characters of the id, used in receipt numbers and file names
func (r *Reservation) ShortID() string {
	return r.ID.String()[:8]
}

func (r *Reservation) TransactionID() string {
	if r.FedapayTransactionID == nil {
		return ""
	}
	return *r.FedapayTransactionID
}

// TrajetSummary is "Depart → Arrivee" when the trajet is loaded
func (r *Reservation) TrajetSummary() string {
	if r.Trajet == nil {
		return ""
	}
	return r.Trajet.Summary()
}

func (r *Reservation) CompagnieID() (uuid.UUID, bool) {
	if r.Trajet == nil {
		return uuid.Nil, false
	}
	return r.Trajet.CompagnieID, true
}

// ContactEmail is the passenger email when given
func (r *Reservation) ContactEmail() string {
	return strings.TrimSpace(r.EmailPassager)
}
