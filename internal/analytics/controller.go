package analytics

import (
	"errors"
	"net/http"

	"busbenin/internal/shared/middleware"
	"busbenin/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// AdminDashboard godoc
// @Summary      Platform dashboard
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.StandardApiResponse
// @Router       /analytics/admin/dashboard [get]
func (c *Controller) AdminDashboard(ctx *gin.Context) {
	dash, err := c.service.AdminDashboard(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get dashboard analytics", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Dashboard analytics retrieved successfully", dash, nil)
}

func (c *Controller) CompanyDashboard(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)

	var compagnieID *uuid.UUID
	if raw := ctx.Query("compagnie_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid compagnie ID", nil, err.Error())
			return
		}
		compagnieID = &id
	}

	dash, err := c.service.CompanyDashboard(ctx.Request.Context(), actor, compagnieID)
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			response.RespondJSON(ctx, "error", http.StatusForbidden, err.Error(), nil, nil)
		case errors.Is(err, ErrCompagnieMissing):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get company analytics", nil, err.Error())
		}
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Company analytics retrieved successfully", dash, nil)
}
