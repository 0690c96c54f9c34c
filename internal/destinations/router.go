package destinations

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
	rg.GET("/destinations", r.controller.List)

	admin := rg.Group("/destinations")
	admin.Use(middleware.JWTAuth(r.config), middleware.RequireAdmin())
	{
		admin.POST("", r.controller.Create)
		admin.PUT("/:id", r.controller.Update)
		admin.DELETE("/:id", r.controller.Delete)
	}
}
