package favoris

import (
	"errors"
	"net/http"

	"busbenin/internal/shared/middleware"
	"busbenin/internal/shared/utils/response"
	"busbenin/internal/trajets"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) ListMine(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)
	list, err := c.service.ListMine(ctx.Request.Context(), actor)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get favoris", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Favoris retrieved successfully", list, nil)
}

func (c *Controller) Toggle(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)
	trajetID, ok := parseTrajetID(ctx)
	if !ok {
		return
	}

	status, err := c.service.Toggle(ctx.Request.Context(), actor, trajetID)
	if err != nil {
		if errors.Is(err, trajets.ErrTrajetNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to toggle favori", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Favori updated successfully", status, nil)
}

func (c *Controller) Check(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)
	trajetID, ok := parseTrajetID(ctx)
	if !ok {
		return
	}

	status, err := c.service.IsFavorite(ctx.Request.Context(), actor, trajetID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to check favori", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Favori status retrieved successfully", status, nil)
}

func parseTrajetID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("trajetId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid trajet ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}
