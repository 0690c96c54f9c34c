package analytics

import (
	"time"

	"busbenin/internal/reservations"

	"github.com/google/uuid"
)

// Counts are the headline numbers of a dashboard
type Counts struct {
	Users        int64 `json:"users,omitempty"`
	Trajets      int64 `json:"trajets"`
	Reservations int64 `json:"reservations"`
	EnAttente    int64 `json:"en_attente"`
	Confirmees   int64 `json:"confirmees"`
	Annulees     int64 `json:"annulees"`
	Expirees     int64 `json:"expirees"`
}

// DailyPoint is one day of the 7-day chart
type DailyPoint struct {
	Date         string `json:"date"`  // 2006-01-02
	Label        string `json:"label"` // 02/01
	Reservations int64  `json:"reservations"`
	Confirmees   int64  `json:"confirmees"`
	Revenue      int64  `json:"revenue"`
}

type CompagnieShare struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type StatusShare struct {
	Statut string `json:"statut"`
	Name   string `json:"name"`
	Value  int64  `json:"value"`
}

type AdminDashboard struct {
	Counts      Counts                     `json:"counts"`
	Revenue     int64                      `json:"revenue"`
	Recent      []reservations.Reservation `json:"recent"`
	Daily       []DailyPoint               `json:"daily"`
	Compagnies  []CompagnieShare           `json:"compagnies"`
	Statuts     []StatusShare              `json:"statuts"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

type CompanyDashboard struct {
	CompagnieID uuid.UUID                  `json:"compagnie_id"`
	Counts      Counts                     `json:"counts"`
	Revenue     int64                      `json:"revenue"`
	Recent      []reservations.Reservation `json:"recent"`
	Daily       []DailyPoint               `json:"daily"`
	Statuts     []StatusShare              `json:"statuts"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

// Scope restricts queries to one compagnie's trajets when set
type Scope struct {
	CompagnieID *uuid.UUID
}

// ActivityRow is the slice of a reservation the daily series needs
type ActivityRow struct {
	CreatedAt      time.Time
	Statut         string
	StatutPaiement string
	MontantTotal   int64
}

// StatusCount is one GROUP BY statut row
type StatusCount struct {
	Statut string
	Total  int64
}
