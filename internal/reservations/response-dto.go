package reservations

import "busbenin/pkg/fedapay"

type PaginatedReservations struct {
	Reservations []Reservation `json:"reservations"`
	TotalCount   int64         `json:"total_count"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
	TotalPages   int           `json:"total_pages"`
}

// PaymentSession is what the client needs to redirect to checkout
type PaymentSession struct {
	ReservationID string `json:"reservation_id"`
	TransactionID string `json:"transaction_id"`
	PaymentURL    string `json:"payment_url"`
}

// Outcome reports a transition attempt; Changed is false for no-ops
type Outcome struct {
	Reservation       *Reservation   `json:"reservation"`
	Changed           bool           `json:"changed"`
	TransactionStatus fedapay.Status `json:"transaction_status,omitempty"`
}

// SweepResult summarises one reconciler pass
type SweepResult struct {
	Checked   int `json:"checked"`
	Confirmed int `json:"confirmed"`
	Failed    int `json:"failed"`
}
