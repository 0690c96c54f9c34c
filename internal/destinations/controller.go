package destinations

import (
	"errors"
	"net/http"

	"busbenin/internal/shared/utils/response"
	"busbenin/internal/shared/validation"

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
	list, err := c.service.List(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get destinations", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Destinations retrieved successfully", list, nil)
}

func (c *Controller) Create(ctx *gin.Context) {
	req, ok := c.bind(ctx)
	if !ok {
		return
	}
	d, err := c.service.Create(ctx.Request.Context(), req)
	if err != nil {
		c.respondError(ctx, err, "Failed to create destination")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Destination created successfully", d, nil)
}

func (c *Controller) Update(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid destination ID", nil, err.Error())
		return
	}
	req, ok := c.bind(ctx)
	if !ok {
		return
	}
	d, err := c.service.Update(ctx.Request.Context(), id, req)
	if err != nil {
		c.respondError(ctx, err, "Failed to update destination")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Destination updated successfully", d, nil)
}

func (c *Controller) Delete(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid destination ID", nil, err.Error())
		return
	}
	if err := c.service.Delete(ctx.Request.Context(), id); err != nil {
		c.respondError(ctx, err, "Failed to delete destination")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Destination deleted successfully", nil, nil)
}

func (c *Controller) bind(ctx *gin.Context) (DestinationRequest, bool) {
	var req DestinationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return req, false
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, validation.Messages(err))
		return req, false
	}
	return req, true
}

func (c *Controller) respondError(ctx *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrDestinationNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrDestinationExists):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, message, nil, err.Error())
	}
}
