package routes

import (
	"net/http"
	"time"

	_ "busbenin/api/docs"
	"busbenin/internal/analytics"
	"busbenin/internal/auth"
	"busbenin/internal/avis"
	"busbenin/internal/compagnies"
	"busbenin/internal/destinations"
	"busbenin/internal/favoris"
	"busbenin/internal/receipts"
	"busbenin/internal/reservations"
	"busbenin/internal/shared/config"
	"busbenin/internal/shared/database"
	"busbenin/internal/trajets"
	"busbenin/internal/users"
	"busbenin/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const serviceName = "busbenin-backend"

// JobStatus reports background job state for /status
type JobStatus interface {
	GetJobStatus() map[string]interface{}
}

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	services *Services
	log      *logger.Logger
	jobs     JobStatus
}

func NewRouter(cfg *config.Config, db *database.DB, services *Services, log *logger.Logger, jobs JobStatus) *Router {
	return &Router{config: cfg, db: db, services: services, log: log, jobs: jobs}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	if r.config.IsDevelopment() {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupUserRoutes(api)
		r.setupCatalogueRoutes(api)
		r.setupSocialRoutes(api)
		r.setupReservationRoutes(api)
		r.setupAnalyticsRoutes(api)
	}
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   serviceName,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   serviceName,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		body := gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		}
		if r.jobs != nil {
			body["jobs"] = r.jobs.GetJobStatus()
		}
		c.JSON(http.StatusOK, body)
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	auth.NewRouter(auth.NewController(r.services.Auth), r.config).SetupRoutes(rg)
}

func (r *Router) setupUserRoutes(rg *gin.RouterGroup) {
	users.NewRouter(users.NewController(r.services.Users), r.config).SetupRoutes(rg)
}

// setupCatalogueRoutes covers destinations, compagnies and trajets
func (r *Router) setupCatalogueRoutes(rg *gin.RouterGroup) {
	destinations.NewRouter(destinations.NewController(r.services.Destinations), r.config).SetupRoutes(rg)

	compagnieController := compagnies.NewController(r.services.Compagnies, r.config.Upload.MaxSize)
	compagnies.NewRouter(compagnieController, r.config).SetupRoutes(rg)

	trajets.NewRouter(trajets.NewController(r.services.Trajets), r.config).SetupRoutes(rg)
}

func (r *Router) setupSocialRoutes(rg *gin.RouterGroup) {
	avis.NewRouter(avis.NewController(r.services.Avis), r.config).SetupRoutes(rg)
	favoris.NewRouter(favoris.NewController(r.services.Favoris), r.config).SetupRoutes(rg)
}

func (r *Router) setupReservationRoutes(rg *gin.RouterGroup) {
	webhook := reservations.NewWebhookController(r.services.Reservations, r.config.FedaPay.WebhookSecret, r.log)
	reservations.NewRouter(reservations.NewController(r.services.Reservations), webhook, r.config).SetupRoutes(rg)

	receipts.NewRouter(receipts.NewController(r.services.Receipts), r.config).SetupRoutes(rg)
}

func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	analytics.NewRouter(analytics.NewController(r.services.Analytics), r.config).SetupRoutes(rg)
}
