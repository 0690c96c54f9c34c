package receipts

import (
	"fmt"
	"strings"
	"time"

	"busbenin/internal/reservations"
)

type Layout string

const (
	LayoutDesktop Layout = "desktop"
	LayoutMobile  Layout = "mobile"
)

// ParseLayout defaults to desktop; unknown values are rejected
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case "", LayoutDesktop:
		return LayoutDesktop, nil
	case LayoutMobile:
		return LayoutMobile, nil
	default:
		return "", fmt.Errorf("unknown receipt layout %q", s)
	}
}

// Receipt is the printable view of a confirmed reservation
type Receipt struct {
	Number        string
	ShortID       string
	IssuedAt      time.Time
	Passenger     string
	Telephone     string
	Email         string
	Depart        string
	Arrivee       string
	Compagnie     string
	Gare          string
	DateVoyage    string
	Horaire       string
	NbPlaces      int
	PrixUnitaire  int64
	MontantTotal  int64
	MoyenPaiement string
	TransactionID string
	Statut        string
}

func FromReservation(res *reservations.Reservation, issuedAt time.Time) Receipt {
	short := res.ShortID()
	r := Receipt{
		Number:        "REC-" + strings.ToUpper(short),
		ShortID:       short,
		IssuedAt:      issuedAt,
		Passenger:     res.NomPassager,
		Telephone:     res.TelephonePassager,
		Email:         res.ContactEmail(),
		DateVoyage:    res.DateVoyage,
		Horaire:       res.Horaire,
		NbPlaces:      res.NbPlaces,
		MontantTotal:  res.MontantTotal,
		MoyenPaiement: moyenLabel(res.MoyenPaiement),
		TransactionID: res.TransactionID(),
		Statut:        string(res.StatutPaiement),
	}
	if res.NbPlaces > 0 {
		r.PrixUnitaire = res.MontantTotal / int64(res.NbPlaces)
	}
	if t := res.Trajet; t != nil {
		r.Depart = t.Depart
		r.Arrivee = t.Arrivee
		r.Gare = t.Gare
		r.Compagnie = t.CompagnieNom()
	}
	return r
}

func (r Receipt) FileName(layout Layout) string {
	if layout == LayoutMobile {
		return "ticket-mobile-" + r.ShortID + ".pdf"
	}
	return "recu-bus-benin-" + r.ShortID + ".pdf"
}

func moyenLabel(m reservations.MoyenPaiement) string {
	switch m {
	case reservations.MoyenMTN:
		return "MTN Mobile Money"
	case reservations.MoyenMoov:
		return "Moov Money"
	case reservations.MoyenCeltiis:
		return "Celtiis Cash"
	case reservations.MoyenCard:
		return "Carte bancaire"
	default:
		return string(m)
	}
}

// Document is a rendered file ready to be served
type Document struct {
	Content     []byte
	FileName    string
	ContentType string
}
