package compagnies

import (
	"errors"
	"net/http"

	"busbenin/internal/shared/utils/response"
	"busbenin/internal/shared/validation"
	"busbenin/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service       Service
	validator     *validator.Validate
	maxUploadSize int64
}

func NewController(service Service, maxUploadSize int64) *Controller {
	return &Controller{service: service, validator: validation.New(), maxUploadSize: maxUploadSize}
}

func (c *Controller) List(ctx *gin.Context) {
	list, err := c.service.List(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get compagnies", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Compagnies retrieved successfully", list, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	comp, err := c.service.Get(ctx.Request.Context(), id)
	if err != nil {
		c.respondError(ctx, err, "Failed to get compagnie")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Compagnie retrieved successfully", comp, nil)
}

func (c *Controller) Create(ctx *gin.Context) {
	var req CreateCompagnieRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, validation.Messages(err))
		return
	}

	comp, err := c.service.Create(ctx.Request.Context(), req)
	if err != nil {
		c.respondError(ctx, err, "Failed to create compagnie")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Compagnie created successfully", comp, nil)
}

func (c *Controller) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var req UpdateCompagnieRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, validation.Messages(err))
		return
	}

	comp, err := c.service.Update(ctx.Request.Context(), id, req)
	if err != nil {
		c.respondError(ctx, err, "Failed to update compagnie")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Compagnie updated successfully", comp, nil)
}

func (c *Controller) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	if err := c.service.Delete(ctx.Request.Context(), id); err != nil {
		c.respondError(ctx, err, "Failed to delete compagnie")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Compagnie deleted successfully", nil, nil)
}

// UploadLogo accepts a multipart "logo" file
func (c *Controller) UploadLogo(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	fh, err := ctx.FormFile("logo")
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Logo file is required", nil, err.Error())
		return
	}
	if err := storage.ValidateImage(fh, c.maxUploadSize); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid logo file", nil, err.Error())
		return
	}

	file, err := fh.Open()
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to read logo file", nil, err.Error())
		return
	}
	defer file.Close()

	comp, err := c.service.UploadLogo(ctx.Request.Context(), id, file)
	if err != nil {
		c.respondError(ctx, err, "Failed to upload logo")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Logo uploaded successfully", comp, nil)
}

func parseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid compagnie ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (c *Controller) respondError(ctx *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrCompagnieNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrCompagnieInUse):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, storage.ErrNotConfigured):
		response.RespondJSON(ctx, "error", http.StatusServiceUnavailable, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, message, nil, err.Error())
	}
}
