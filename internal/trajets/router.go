package trajets

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
	public := rg.Group("")
	{
		public.GET("/trajets", r.controller.Search)
		public.GET("/trajets/home", r.controller.Home)
		public.GET("/trajets/:id", r.controller.Get)
		public.GET("/compagnies/:id/trajets", r.controller.ListByCompagnie)
	}

	manage := rg.Group("/manage/trajets")
	manage.Use(middleware.JWTAuth(r.config), middleware.RequireStaff())
	{
		manage.POST("", r.controller.Create)
		manage.PUT("/:id", r.controller.Update)
		manage.DELETE("/:id", r.controller.Delete)
	}
}
