package reservations

type Statut string

const (
	StatutEnAttente Statut = "en_attente"
	StatutConfirmee Statut = "confirmee"
	StatutAnnulee   Statut = "annulee"
	StatutExpiree   Statut = "expiree"
)

func (s Statut) IsValid() bool {
	switch s {
	case StatutEnAttente, StatutConfirmee, StatutAnnulee, StatutExpiree:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed
func (s Statut) IsTerminal() bool {
	return s == StatutConfirmee || s == StatutAnnulee || s == StatutExpiree
}

func (s Statut) String() string {
	return string(s)
}

type StatutPaiement string

const (
	PaiementPending  StatutPaiement = "pending"
	PaiementApproved StatutPaiement = "approved"
	PaiementDeclined StatutPaiement = "declined"
	PaiementCanceled StatutPaiement = "canceled"
)

func (s StatutPaiement) String() string {
	return string(s)
}

type MoyenPaiement string

const (
	MoyenMTN     MoyenPaiement = "mtn"
	MoyenMoov    MoyenPaiement = "moov"
	MoyenCeltiis MoyenPaiement = "celtiis"
	MoyenCard    MoyenPaiement = "card"
)

func (m MoyenPaiement) IsValid() bool {
	switch m {
	case MoyenMTN, MoyenMoov, MoyenCeltiis, MoyenCard:
		return true
	}
	return false
}

// IsMobileMoney reports whether the aggregator should be told which operator to use
func (m MoyenPaiement) IsMobileMoney() bool {
	return m == MoyenMTN || m == MoyenMoov || m == MoyenCeltiis
}
