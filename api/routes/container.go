package routes

import (
	"busbenin/internal/analytics"
	"busbenin/internal/auth"
	"busbenin/internal/avis"
	"busbenin/internal/compagnies"
	"busbenin/internal/destinations"
	"busbenin/internal/favoris"
	"busbenin/internal/notifications"
	"busbenin/internal/receipts"
	"busbenin/internal/reservations"
	"busbenin/internal/shared/config"
	"busbenin/internal/trajets"
	"busbenin/internal/users"
	"busbenin/pkg/cache"
	"busbenin/pkg/logger"
	"busbenin/pkg/storage"

	"gorm.io/gorm"
)

// Dependencies are the external resources the services are built on.
// Cache, Publisher and Uploader may be nil.
type Dependencies struct {
	Config    *config.Config
	SQL       *gorm.DB
	Cache     cache.Service
	Logger    *logger.Logger
	Gateway   reservations.PaymentGateway
	Publisher notifications.Publisher
	Uploader  storage.Uploader
}

// Services holds one instance of every feature service
type Services struct {
	Auth         auth.Service
	Users        users.Service
	Destinations destinations.Service
	Compagnies   compagnies.Service
	Trajets      trajets.Service
	Avis         avis.Service
	Favoris      favoris.Service
	Reservations reservations.Service
	Receipts     receipts.Service
	Analytics    analytics.Service
}

// BuildServices wires repositories and services; shared by the HTTP server and the CLI
func BuildServices(deps Dependencies) *Services {
	cfg, log := deps.Config, deps.Logger

	authRepo := auth.NewRepository(deps.SQL)
	compagnieService := compagnies.NewService(compagnies.NewRepository(deps.SQL), deps.Cache, deps.Uploader, log)
	trajetService := trajets.NewService(trajets.NewRepository(deps.SQL), compagnieService, deps.Cache, log)

	reservationService := reservations.NewService(
		reservations.NewRepository(deps.SQL),
		trajetService,
		deps.Gateway,
		deps.Publisher,
		auth.NewUserServiceAdapter(authRepo),
		reservations.ServiceConfigFrom(cfg),
		log,
	)

	return &Services{
		Auth:         auth.NewService(authRepo, deps.Cache, cfg, log),
		Users:        users.NewService(users.NewRepository(deps.SQL), compagnieService, log),
		Destinations: destinations.NewService(destinations.NewRepository(deps.SQL), deps.Cache),
		Compagnies:   compagnieService,
		Trajets:      trajetService,
		Avis:         avis.NewService(avis.NewRepository(deps.SQL), trajetService, deps.Cache, log),
		Favoris:      favoris.NewService(favoris.NewRepository(deps.SQL), trajetService, log),
		Reservations: reservationService,
		Receipts:     receipts.NewService(reservationService, cfg.Location(), log),
		Analytics:    analytics.NewService(analytics.NewRepository(deps.SQL), deps.Cache, cfg.Location(), log),
	}
}
