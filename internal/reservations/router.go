package reservations

import (
	"busbenin/internal/shared/config"
	"busbenin/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

type Router struct {
	controller *Controller
	webhook    *WebhookController
	config     *config.Config
}

func NewRouter(controller *Controller, webhook *WebhookController, cfg *config.Config) *Router {
	return &Router{controller: controller, webhook: webhook, config: cfg}
}

func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	reservations := rg.Group("/reservations")
	reservations.Use(middleware.JWTAuth(r.config))
	{
		reservations.POST("", r.controller.Create)
		reservations.GET("/mine", r.controller.ListMine)
		reservations.GET("/:id", r.controller.Get)
		reservations.POST("/:id/pay", r.controller.InitiatePayment)
		reservations.POST("/:id/verify", r.controller.Verify)
		reservations.POST("/:id/cancel", r.controller.Cancel)
	}

	manage := rg.Group("/manage/reservations")
	manage.Use(middleware.JWTAuth(r.config), middleware.RequireStaff())
	{
		manage.GET("", r.controller.ListManaged)
		manage.PATCH("/:id/status", r.controller.UpdateStatus)
	}

	if r.webhook != nil {
		rg.POST("/payments/webhook", r.webhook.Handle)
	}
}
