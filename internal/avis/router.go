package avis

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
	rg.GET("/trajets/:id/avis", r.controller.List)
	rg.POST("/trajets/:id/avis", middleware.JWTAuth(r.config), r.controller.Create)
}
