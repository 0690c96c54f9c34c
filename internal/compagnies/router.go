package compagnies

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
	public := rg.Group("/compagnies")
	{
		public.GET("", r.controller.List)
		public.GET("/:id", r.controller.Get)
	}

	admin := rg.Group("")
	admin.Use(middleware.JWTAuth(r.config), middleware.RequireAdmin())
	{
		admin.POST("/compagnies", r.controller.Create)
		admin.PUT("/compagnies/:id", r.controller.Update)
		admin.DELETE("/compagnies/:id", r.controller.Delete)
		admin.POST("/admin/compagnies/:id/logo", r.controller.UploadLogo)
	}
}
