package users

import (
	"errors"
	"net/http"

	"busbenin/internal/shared/middleware"
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

func (c *Controller) GetMe(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	profile, err := c.service.GetMe(ctx.Request.Context(), actor)
	if err != nil {
		c.respondError(ctx, err, "Failed to get profile")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Profile retrieved successfully", profile, nil)
}

func (c *Controller) UpdateMe(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, validation.Messages(err))
		return
	}

	profile, err := c.service.UpdateMe(ctx.Request.Context(), actor, req)
	if err != nil {
		c.respondError(ctx, err, "Failed to update profile")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Profile updated successfully", profile, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	var q ListProfilesQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	profiles, total, err := c.service.List(ctx.Request.Context(), q)
	if err != nil {
		c.respondError(ctx, err, "Failed to list profiles")
		return
	}
	q.Normalize()
	response.RespondPage(ctx, "Profiles retrieved successfully", profiles, q.Page, q.Limit, total)
}

func (c *Controller) UpdateAccess(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid profile ID", nil, err.Error())
		return
	}

	var req UpdateAccessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, validation.Messages(err))
		return
	}

	profile, err := c.service.UpdateAccess(ctx.Request.Context(), id, req)
	if err != nil {
		c.respondError(ctx, err, "Failed to update profile access")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Profile access updated successfully", profile, nil)
}

func (c *Controller) Delete(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid profile ID", nil, err.Error())
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), actor, id); err != nil {
		c.respondError(ctx, err, "Failed to delete profile")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Profile deleted successfully", nil, nil)
}

func (c *Controller) respondError(ctx *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrProfileNotFound), errors.Is(err, ErrCompagnieNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrInvalidCompagnieID):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
	case errors.Is(err, ErrCannotDeleteSelf):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, message, nil, err.Error())
	}
}
