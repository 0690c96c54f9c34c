package trajets

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

// Search godoc
// @Summary      Search trajets
// @Tags         trajets
// @Param        depart    query  string  false  "Departure city (contains)"
// @Param        arrivee   query  string  false  "Arrival city (contains)"
// @Param        prix_max  query  int     false  "Maximum price in XOF"
// @Param        page      query  int     false  "Page"
// @Param        limit     query  int     false  "Page size"
// @Produce      json
// @Success      200  {object}  response.StandardApiResponse
// @Router       /trajets [get]
func (c *Controller) Search(ctx *gin.Context) {
	var q SearchQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	page, err := c.service.Search(ctx.Request.Context(), q)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to search trajets", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Trajets retrieved successfully", page, nil)
}

func (c *Controller) Home(ctx *gin.Context) {
	home, err := c.service.Home(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to load home trajets", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Home trajets retrieved successfully", home, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "Invalid trajet ID")
	if !ok {
		return
	}
	t, err := c.service.Get(ctx.Request.Context(), id)
	if err != nil {
		c.respondError(ctx, err, "Failed to get trajet")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Trajet retrieved successfully", t, nil)
}

func (c *Controller) ListByCompagnie(ctx *gin.Context) {
	id, ok := parseID(ctx, "id", "Invalid compagnie ID")
	if !ok {
		return
	}
	list, err := c.service.ListByCompagnie(ctx.Request.Context(), id)
	if err != nil {
		c.respondError(ctx, err, "Failed to get trajets")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Trajets retrieved successfully", list, nil)
}

func (c *Controller) Create(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)

	var req CreateTrajetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, validation.Messages(err))
		return
	}

	t, err := c.service.Create(ctx.Request.Context(), actor, req)
	if err != nil {
		c.respondError(ctx, err, "Failed to create trajet")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Trajet created successfully", t, nil)
}

func (c *Controller) Update(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)
	id, ok := parseID(ctx, "id", "Invalid trajet ID")
	if !ok {
		return
	}

	var req UpdateTrajetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, validation.Messages(err))
		return
	}

	t, err := c.service.Update(ctx.Request.Context(), actor, id, req)
	if err != nil {
		c.respondError(ctx, err, "Failed to update trajet")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Trajet updated successfully", t, nil)
}

func (c *Controller) Delete(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)
	id, ok := parseID(ctx, "id", "Invalid trajet ID")
	if !ok {
		return
	}
	if err := c.service.Delete(ctx.Request.Context(), actor, id); err != nil {
		c.respondError(ctx, err, "Failed to delete trajet")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Trajet deleted successfully", nil, nil)
}

func parseID(ctx *gin.Context, param, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(param))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, message, nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (c *Controller) respondError(ctx *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrTrajetNotFound), errors.Is(err, ErrCompagnieNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrForbidden):
		response.RespondJSON(ctx, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrCompagnieRequired):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
	case errors.Is(err, ErrTrajetInUse):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, message, nil, err.Error())
	}
}
