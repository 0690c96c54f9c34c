package reservations

import (
	"context"

	"busbenin/internal/notifications"
)

// publish emits a reservation event. Broker failures are logged and never
// undo the state change that triggered them.
func (s *service) publish(ctx context.Context, t notifications.EventType, res *Reservation) {
	if s.publisher == nil {
		return
	}
	event := s.buildEvent(ctx, t, res)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.WarnContext(ctx, "failed to publish reservation event",
			"event_type", string(t),
			"reservation_id", res.ID.String(),
			"error", err,
		)
	}
}

func (s *service) buildEvent(ctx context.Context, t notifications.EventType, res *Reservation) *notifications.ReservationEvent {
	event := notifications.NewReservationEvent(t)
	event.ReservationID = res.ID
	event.UserID = res.UserID
	event.RecipientEmail = res.ContactEmail()
	event.RecipientName = res.NomPassager
	event.Trajet = res.TrajetSummary()
	event.MontantTotal = res.MontantTotal
	event.NbPlaces = res.NbPlaces
	event.DateVoyage = res.DateVoyage
	event.Horaire = res.Horaire
	event.TransactionID = res.TransactionID()
	if res.Trajet != nil {
		event.Compagnie = res.Trajet.CompagnieNom()
	}

	if event.RecipientEmail == "" && s.contacts != nil {
		email, name, err := s.contacts.GetContact(ctx, res.UserID)
		if err != nil {
			s.log.DebugContext(ctx, "no account contact for reservation event",
				"reservation_id", res.ID.String(), "error", err)
		} else {
			event.RecipientEmail = email
			if event.RecipientName == "" {
				event.RecipientName = name
			}
		}
	}
	return event
}
