package notifications

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventReservationCreated   EventType = "reservation.created"
	EventReservationConfirmed EventType = "reservation.confirmed"
	EventReservationCanceled  EventType = "reservation.canceled"
	EventReservationExpired   EventType = "reservation.expired"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventReservationCreated, EventReservationConfirmed, EventReservationCanceled, EventReservationExpired:
		return true
	}
	return false
}

// ReservationEvent is the message carried on the broker for every reservation transition
type ReservationEvent struct {
	ID             uuid.UUID `json:"id"`
	Type           EventType `json:"type"`
	ReservationID  uuid.UUID `json:"reservation_id"`
	UserID         uuid.UUID `json:"user_id"`
	RecipientEmail string    `json:"recipient_email"`
	RecipientName  string    `json:"recipient_name"`
	Trajet         string    `json:"trajet"`
	Compagnie      string    `json:"compagnie,omitempty"`
	MontantTotal   int64     `json:"montant_total"`
	NbPlaces       int       `json:"nb_places"`
	DateVoyage     string    `json:"date_voyage"`
	Horaire        string    `json:"horaire"`
	TransactionID  string    `json:"transaction_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewReservationEvent stamps a fresh id and time on the event
func NewReservationEvent(t EventType) *ReservationEvent {
	return &ReservationEvent{
		ID:         uuid.New(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
	}
}

// PartitionKey keeps every event of one reservation on the same partition
func (e *ReservationEvent) PartitionKey() string {
	return e.ReservationID.String()
}

func (e *ReservationEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func (e *ReservationEvent) HasRecipient() bool {
	return strings.TrimSpace(e.RecipientEmail) != ""
}

// Reference is the short ticket reference shown to travellers
func (e *ReservationEvent) Reference() string {
	return strings.ToUpper(e.ReservationID.String()[:8])
}

func ParseReservationEvent(raw []byte) (*ReservationEvent, error) {
	var e ReservationEvent
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
