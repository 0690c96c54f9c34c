package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"busbenin/internal/notifications"
	"busbenin/internal/shared/identity"
	"busbenin/pkg/fedapay"

	"github.com/google/uuid"
)

// InitiatePayment opens a FedaPay transaction for a pending reservation and
// returns the checkout URL. Only the owner or an admin may pay.
// A transaction still pending locally is checked with FedaPay first: a new one
// is only opened once the previous one is declined or canceled.
func (s *service) InitiatePayment(ctx context.Context, actor identity.Actor, id uuid.UUID, callbackURL string) (*PaymentSession, error) {
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if res.Statut != StatutEnAttente || res.StatutPaiement == PaiementApproved {
		return nil, ErrNotPayable
	}

	if prev := res.TransactionID(); prev != "" && res.StatutPaiement == PaiementPending {
		session, refreshed, err := s.resumePayment(ctx, res, prev)
		if err != nil || session != nil {
			return session, err
		}
		res = refreshed
	}

	tx, err := s.gateway.CreateTransaction(ctx, s.transactionRequest(res, callbackURL))
	if err != nil {
		var apiErr *fedapay.APIError
		if errors.As(err, &apiErr) {
			return nil, &PaymentInitiationError{Message: apiErr.Message, Err: err}
		}
		return nil, &PaymentInitiationError{Message: "payment provider unreachable", Err: err}
	}
	if tx == nil || tx.ID == "" {
		return nil, &PaymentInitiationError{Message: "payment provider returned no transaction", Err: fedapay.ErrNoTransaction}
	}
	paymentURL := s.gateway.CheckoutURL(tx)
	if paymentURL == "" {
		return nil, &PaymentInitiationError{Message: "payment provider returned no checkout link", Err: fedapay.ErrNoCheckoutURL}
	}

	txID := tx.ID.String()
	changed, err := s.repo.UpdatePending(ctx, id, map[string]interface{}{
		"fedapay_transaction_id": txID,
		"statut_paiement":        PaiementPending,
		"reconcile_attempts":     0,
		"next_reconcile_at":      s.now().Add(s.config.InitialDelay),
		"last_reconcile_error":   nil,
	})
	if err != nil {
		return nil, &PersistenceError{Op: "attach_transaction", Err: err}
	}
	if !changed {
		// cancelled or expired while the transaction was being created
		return nil, ErrNotPayable
	}

	s.log.LogPaymentInitiated(ctx, id.String(), txID)
	return &PaymentSession{
		ReservationID: id.String(),
		TransactionID: txID,
		PaymentURL:    paymentURL,
	}, nil
}

// resumePayment settles the reservation's current transaction before a new one is opened.
// It returns the existing session while FedaPay still waits for the customer, and the
// refreshed reservation when the previous attempt failed.
func (s *service) resumePayment(ctx context.Context, res *Reservation, txID string) (*PaymentSession, *Reservation, error) {
	tx, status, err := s.fetchStatus(ctx, txID)
	if err != nil {
		return nil, nil, err
	}
	outcome, err := s.apply(ctx, res, tx, status)
	if err != nil {
		return nil, nil, err
	}

	switch status {
	case fedapay.StatusApproved:
		return nil, nil, ErrNotPayable
	case fedapay.StatusPending:
		paymentURL := s.gateway.CheckoutURL(tx)
		if paymentURL == "" {
			return nil, nil, ErrPaymentInProgress
		}
		return &PaymentSession{
			ReservationID: res.ID.String(),
			TransactionID: txID,
			PaymentURL:    paymentURL,
		}, nil, nil
	}

	if outcome.Reservation.Statut != StatutEnAttente {
		return nil, nil, ErrNotPayable
	}
	return nil, outcome.Reservation, nil
}

func (s *service) transactionRequest(res *Reservation, callbackURL string) fedapay.CreateTransactionRequest {
	places := "place"
	if res.NbPlaces > 1 {
		places = "places"
	}
	description := fmt.Sprintf("Réservation %s - %d %s", res.TrajetSummary(), res.NbPlaces, places)

	first, last := fedapay.SplitName(res.NomPassager)
	req := fedapay.CreateTransactionRequest{
		Description: description,
		Amount:      res.MontantTotal,
		Currency:    fedapay.Currency{ISO: s.config.Currency},
		Customer: fedapay.Customer{
			Firstname: first,
			Lastname:  last,
			Email:     res.ContactEmail(),
		},
	}
	if phone := strings.Join(strings.Fields(res.TelephonePassager), ""); phone != "" {
		req.Customer.PhoneNumber = &fedapay.PhoneNumber{Number: phone, Country: s.config.Country}
	}

	if callbackURL == "" {
		callbackURL = s.config.CallbackURL
	}
	if strings.HasPrefix(callbackURL, "http://") || strings.HasPrefix(callbackURL, "https://") {
		req.CallbackURL = callbackURL
	}
	if res.MoyenPaiement.IsMobileMoney() {
		req.Mode = string(res.MoyenPaiement)
	}
	return req
}

// Verify is the traveller-triggered reconciliation after returning from checkout
func (s *service) Verify(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Outcome, error) {
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, res) {
		return nil, ErrForbidden
	}
	return s.reconcile(ctx, res)
}

func (s *service) Reconcile(ctx context.Context, id uuid.UUID) (*Outcome, error) {
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, res)
}

// ReconcileTransaction is used by the webhook, which only knows the transaction id
func (s *service) ReconcileTransaction(ctx context.Context, transactionID string) (*Outcome, error) {
	res, err := s.repo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			return nil, err
		}
		return nil, &PersistenceError{Op: "load_by_transaction", Err: err}
	}
	return s.reconcile(ctx, res)
}

// reconcile asks FedaPay for the transaction status and applies it.
// Only en_attente rows move, so repeated calls never produce a second confirmation.
func (s *service) reconcile(ctx context.Context, res *Reservation) (*Outcome, error) {
	txID := res.TransactionID()
	if txID == "" {
		return nil, ErrNoTransaction
	}
	if res.Statut == StatutConfirmee {
		return &Outcome{Reservation: res, TransactionStatus: fedapay.StatusApproved}, nil
	}

	tx, status, err := s.fetchStatus(ctx, txID)
	if err != nil {
		return nil, err
	}

	if res.Statut.IsTerminal() {
		if status == fedapay.StatusApproved {
			s.log.WarnContext(ctx, "payment approved for a closed reservation",
				"reservation_id", res.ID.String(),
				"statut", res.Statut.String(),
				"transaction_id", txID,
			)
		}
		return &Outcome{Reservation: res, TransactionStatus: status}, nil
	}
	return s.apply(ctx, res, tx, status)
}

// fetchStatus looks the transaction up and folds its status into the four the booking flow applies
func (s *service) fetchStatus(ctx context.Context, txID string) (*fedapay.Transaction, fedapay.Status, error) {
	tx, err := s.gateway.GetTransaction(ctx, txID)
	if err != nil {
		return nil, "", &ReconciliationError{TransactionID: txID, Err: err}
	}
	if tx == nil || !tx.Status.Known() {
		status := ""
		if tx != nil {
			status = string(tx.Status)
		}
		return nil, "", &ReconciliationError{TransactionID: txID, Err: fmt.Errorf("unknown transaction status %q", status)}
	}
	return tx, tx.Status.Settled(), nil
}

// apply writes the transaction status onto an en_attente reservation
func (s *service) apply(ctx context.Context, res *Reservation, tx *fedapay.Transaction, status fedapay.Status) (*Outcome, error) {
	txID := tx.ID.String()
	if txID == "" {
		txID = res.TransactionID()
	}

	var updates map[string]interface{}
	switch status {
	case fedapay.StatusApproved:
		updates = map[string]interface{}{
			"statut":               StatutConfirmee,
			"statut_paiement":      PaiementApproved,
			"next_reconcile_at":    nil,
			"last_reconcile_error": nil,
		}
	case fedapay.StatusPending:
		if res.StatutPaiement != PaiementPending {
			updates = map[string]interface{}{"statut_paiement": PaiementPending}
		}
	case fedapay.StatusDeclined, fedapay.StatusCanceled:
		updates = map[string]interface{}{
			"statut_paiement":   StatutPaiement(status),
			"next_reconcile_at": nil,
		}
	}

	if updates == nil {
		return &Outcome{Reservation: res, TransactionStatus: status}, nil
	}

	changed, err := s.repo.UpdatePending(ctx, res.ID, updates)
	if err != nil {
		return nil, &PersistenceError{Op: "apply_transaction_status", Err: err}
	}
	after, err := s.load(ctx, res.ID)
	if err != nil {
		return nil, err
	}

	if changed && status == fedapay.StatusApproved {
		s.log.LogReservationConfirmed(ctx, res.ID.String(), txID)
		s.publish(ctx, notifications.EventReservationConfirmed, after)
	}
	return &Outcome{Reservation: after, Changed: changed, TransactionStatus: status}, nil
}
