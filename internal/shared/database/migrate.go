package database

import (
	"busbenin/internal/avis"
	"busbenin/internal/compagnies"
	"busbenin/internal/destinations"
	"busbenin/internal/favoris"
	"busbenin/internal/reservations"
	"busbenin/internal/trajets"
	"busbenin/internal/users"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, in dependency order
func Models() []interface{} {
	return []interface{}{
		&users.Profile{},
		&destinations.Destination{},
		&compagnies.Compagnie{},
		&trajets.Trajet{},
		&reservations.Reservation{},
		&avis.Avis{},
		&favoris.Favori{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
