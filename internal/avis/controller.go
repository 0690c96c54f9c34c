package avis

import (
	"errors"
	"net/http"

	"busbenin/internal/shared/middleware"
	"busbenin/internal/shared/utils/response"
	"busbenin/internal/shared/validation"
	"busbenin/internal/trajets"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{service: service, validator: validation.New()}
}

func (c *Controller) List(ctx *gin.Context) {
	trajetID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid trajet ID", nil, err.Error())
		return
	}

	list, err := c.service.ListByTrajet(ctx.Request.Context(), trajetID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get avis", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Avis retrieved successfully", list, nil)
}

func (c *Controller) Create(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)
	trajetID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid trajet ID", nil, err.Error())
		return
	}

	var req CreateAvisRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, validation.Messages(err))
		return
	}

	out, err := c.service.Create(ctx.Request.Context(), actor, trajetID, req)
	if err != nil {
		switch {
		case errors.Is(err, trajets.ErrTrajetNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
		case errors.Is(err, ErrAlreadyReviewed):
			response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create avis", nil, err.Error())
		}
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Avis created successfully", out, nil)
}
