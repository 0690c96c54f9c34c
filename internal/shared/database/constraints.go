package database

import (
	"fmt"

	"busbenin/internal/reservations"

	"gorm.io/gorm"
)

type checkConstraint struct {
	name string
	expr string
}

var reservationChecks = []checkConstraint{
	{"chk_reservations_nb_places", "nb_places BETWEEN 1 AND 10"},
	{"chk_reservations_montant", "montant_total >= 0"},
	{"chk_reservations_statut", "statut IN ('en_attente','confirmee','annulee','expiree')"},
	{"chk_reservations_statut_paiement", "statut_paiement IN ('pending','approved','declined','canceled')"},
}

// reconciler and expiry sweeps filter on these columns together
const reconcileIndex = "idx_reservations_reconcile_due"

// MigrateConstraints adds the checks and composite indexes AutoMigrate cannot express.
// Every statement is guarded so the migration can run on each start.
func MigrateConstraints(db *gorm.DB) error {
	m := db.Migrator()

	for _, c := range reservationChecks {
		if m.HasConstraint(&reservations.Reservation{}, c.name) {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE reservations ADD CONSTRAINT %s CHECK (%s)", c.name, c.expr)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("add constraint %s: %w", c.name, err)
		}
	}

	if !m.HasIndex(&reservations.Reservation{}, reconcileIndex) {
		stmt := fmt.Sprintf("CREATE INDEX %s ON reservations (statut, statut_paiement, next_reconcile_at)", reconcileIndex)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index %s: %w", reconcileIndex, err)
		}
	}
	return nil
}
