package users

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
	me := rg.Group("/profiles")
	me.Use(middleware.JWTAuth(r.config))
	{
		me.GET("/me", r.controller.GetMe)
		me.PUT("/me", r.controller.UpdateMe)
	}

	admin := rg.Group("/admin/profiles")
	admin.Use(middleware.JWTAuth(r.config), middleware.RequireAdmin())
	{
		admin.GET("", r.controller.List)
		admin.PATCH("/:id", r.controller.UpdateAccess)
		admin.DELETE("/:id", r.controller.Delete)
	}
}
