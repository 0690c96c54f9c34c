package analytics

import (
	"busbenin/internal/shared/config"
	"busbenin/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

type Router struct {
	controller *Controller
	config     *config.Config
}

func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{controller: controller, config: cfg}
}

func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	analytics := rg.Group("/analytics")
	analytics.Use(middleware.JWTAuth(r.config))

	admin := analytics.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/dashboard", r.controller.AdminDashboard)
	}

	company := analytics.Group("/company")
	company.Use(middleware.RequireStaff())
	{
		company.GET("/dashboard", r.controller.CompanyDashboard)
	}
}
