package notifications

import (
	"context"
	"fmt"
	"time"

	"busbenin/pkg/logger"
)

// Handler processes one consumed event
type Handler interface {
	Handle(ctx context.Context, event *ReservationEvent) error
}

type DispatcherConfig struct {
	MaxRetries   int
	RetryBackoff time.Duration
}

func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{MaxRetries: 3, RetryBackoff: time.Second}
}

// Dispatcher turns reservation events into emails
type Dispatcher struct {
	email  EmailService
	config DispatcherConfig
	log    *logger.Logger
}

func NewDispatcher(email EmailService, cfg DispatcherConfig, log *logger.Logger) *Dispatcher {
	return &Dispatcher{email: email, config: cfg, log: log}
}

func (d *Dispatcher) Handle(ctx context.Context, event *ReservationEvent) error {
	if !event.HasRecipient() {
		d.log.DebugContext(ctx, "event without recipient skipped",
			"type", string(event.Type), "reservation_id", event.ReservationID.String())
		return nil
	}

	subject, htmlBody, textBody, err := Render(event)
	if err != nil {
		return err
	}

	return d.executeWithRetry(ctx, func() error {
		return d.email.SendHTML(ctx, event.RecipientEmail, subject, htmlBody, textBody)
	})
}

func (d *Dispatcher) executeWithRetry(ctx context.Context, send func() error) error {
	var err error
	for attempt := 0; attempt <= d.config.MaxRetries; attempt++ {
		if err = send(); err == nil {
			return nil
		}
		if attempt == d.config.MaxRetries {
			break
		}

		delay := d.config.RetryBackoff * time.Duration(1<<attempt)
		d.log.WarnContext(ctx, "email send failed, retrying", "attempt", attempt+1, "delay", delay.String(), "error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("email failed after %d attempts: %w", d.config.MaxRetries+1, err)
}
