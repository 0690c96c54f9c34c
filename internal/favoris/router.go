package favoris

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
	fav := rg.Group("/favoris")
	fav.Use(middleware.JWTAuth(r.config))
	{
		fav.GET("", r.controller.ListMine)
		fav.GET("/:trajetId", r.controller.Check)
		fav.POST("/:trajetId/toggle", r.controller.Toggle)
	}
}
