package receipts

import (
	"context"
	"time"

	"busbenin/internal/reservations"
	"busbenin/internal/shared/identity"
	"busbenin/pkg/logger"

	"github.com/google/uuid"
)

// ReservationSource returns a confirmed reservation the actor may see
type ReservationSource interface {
	GetForReceipt(ctx context.Context, actor identity.Actor, id uuid.UUID) (*reservations.Reservation, error)
}

type Service interface {
	Generate(ctx context.Context, actor identity.Actor, id uuid.UUID, layout Layout) (*Document, error)
}

type service struct {
	source   ReservationSource
	location *time.Location
	log      *logger.Logger
	now      func() time.Time
}

func NewService(source ReservationSource, location *time.Location, log *logger.Logger) Service {
	if location == nil {
		location = time.UTC
	}
	return &service{source: source, location: location, log: log, now: time.Now}
}

func (s *service) Generate(ctx context.Context, actor identity.Actor, id uuid.UUID, layout Layout) (*Document, error) {
	res, err := s.source.GetForReceipt(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	receipt := FromReservation(res, s.now().In(s.location))
	content, err := Render(receipt, layout)
	if err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "receipt generated",
		"reservation_id", id.String(),
		"layout", string(layout),
		"bytes", len(content),
	)
	return &Document{
		Content:     content,
		FileName:    receipt.FileName(layout),
		ContentType: "application/pdf",
	}, nil
}
