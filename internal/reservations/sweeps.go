package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"busbenin/internal/notifications"
	"busbenin/pkg/fedapay"
)

// Backoff is the wait before reconcile attempt n+1: initial doubled per attempt, capped at max
func Backoff(initial, max time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		return max
	}
	d := initial << uint(attempt)
	if d <= 0 || d > max {
		return max
	}
	return d
}

// RunReconcileSweep polls FedaPay for pending transactions whose next check is due.
// Failed or still pending checks are rescheduled with backoff until MaxAttempts.
func (s *service) RunReconcileSweep(ctx context.Context) (*SweepResult, error) {
	now := s.now()
	due, err := s.repo.DueForReconcile(ctx, now, s.config.MaxAttempts, s.config.BatchSize)
	if err != nil {
		return nil, &PersistenceError{Op: "due_for_reconcile", Err: err}
	}

	result := &SweepResult{}
	for i := range due {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		res := &due[i]
		result.Checked++

		outcome, err := s.reconcile(ctx, res)
		switch {
		case err == nil && outcome.Reservation.Statut == StatutConfirmee:
			result.Confirmed++
			continue
		case err == nil && outcome.TransactionStatus != fedapay.StatusPending:
			// declined or canceled: the payment can be retried by the traveller
			continue
		case err != nil && !IsReconciliation(err) && !errors.Is(err, ErrNoTransaction):
			result.Failed++
			s.log.ErrorContext(ctx, "reconcile sweep aborted on store error",
				"reservation_id", res.ID.String(), "error", err)
			return result, err
		}

		if err != nil {
			result.Failed++
		}
		if rerr := s.reschedule(ctx, res, now, err); rerr != nil {
			return result, rerr
		}
	}

	if result.Checked > 0 {
		s.log.InfoContext(ctx, "reconcile sweep finished",
			"checked", result.Checked,
			"confirmed", result.Confirmed,
			"failed", result.Failed,
		)
	}
	return result, nil
}

func (s *service) reschedule(ctx context.Context, res *Reservation, now time.Time, cause error) error {
	attempts := res.ReconcileAttempts + 1

	var next interface{}
	if attempts < s.config.MaxAttempts {
		next = now.Add(Backoff(s.config.InitialDelay, s.config.MaxBackoff, attempts))
	}
	var lastErr interface{}
	if cause != nil {
		lastErr = cause.Error()
		s.log.LogReconcileFailed(ctx, res.ID.String(), attempts, cause)
	}

	_, err := s.repo.UpdatePending(ctx, res.ID, map[string]interface{}{
		"reconcile_attempts":   attempts,
		"next_reconcile_at":    next,
		"last_reconcile_error": lastErr,
	})
	if err != nil {
		return &PersistenceError{Op: "reschedule_reconcile", Err: err}
	}
	return nil
}

// RunExpirySweep closes pending reservations whose travel date has passed
// or that stayed unpaid longer than PendingTTL.
func (s *service) RunExpirySweep(ctx context.Context) (int, error) {
	now := s.now()
	cutoff := now.Add(-s.config.PendingTTL)

	candidates, err := s.repo.ExpiryCandidates(ctx, s.today(), cutoff, s.config.ExpiryBatch)
	if err != nil {
		return 0, &PersistenceError{Op: "expiry_candidates", Err: err}
	}

	expired := 0
	for i := range candidates {
		res := &candidates[i]
		changed, err := s.repo.UpdatePending(ctx, res.ID, map[string]interface{}{
			"statut":            StatutExpiree,
			"next_reconcile_at": nil,
		})
		if err != nil {
			return expired, &PersistenceError{Op: "expire_reservation", Err: fmt.Errorf("%s: %w", res.ID, err)}
		}
		if !changed {
			continue
		}
		expired++
		s.log.LogReservationExpired(ctx, res.ID.String())
		res.Statut = StatutExpiree
		res.NextReconcileAt = nil
		s.publish(ctx, notifications.EventReservationExpired, res)
	}

	if expired > 0 {
		s.log.InfoContext(ctx, "expired pending reservations", "count", expired)
	}
	return expired, nil
}
