package reservations

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

// Create godoc
// @Summary      Book places on a trajet
// @Tags         reservations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  CreateReservationRequest  true  "Reservation"
// @Success      201  {object}  response.StandardApiResponse
// @Failure      400  {object}  response.StandardApiResponse
// @Router       /reservations [post]
func (c *Controller) Create(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)

	var req CreateReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	res, err := c.service.Create(ctx.Request.Context(), actor, req)
	if err != nil {
		c.respondError(ctx, err, "Failed to create reservation")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Reservation created successfully", res, nil)
}

func (c *Controller) ListMine(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)

	var q ListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	page, err := c.service.ListMine(ctx.Request.Context(), actor, q)
	if err != nil {
		c.respondError(ctx, err, "Failed to list reservations")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Reservations retrieved successfully", page, nil)
}

func (c *Controller) ListManaged(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)

	var q ListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	page, err := c.service.ListManaged(ctx.Request.Context(), actor, q)
	if err != nil {
		c.respondError(ctx, err, "Failed to list reservations")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Reservations retrieved successfully", page, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	res, err := c.service.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		c.respondError(ctx, err, "Failed to get reservation")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation retrieved successfully", res, nil)
}

// InitiatePayment godoc
// @Summary      Start a FedaPay payment for a pending reservation
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Reservation ID"
// @Success      200  {object}  response.StandardApiResponse
// @Failure      409  {object}  response.StandardApiResponse
// @Failure      502  {object}  response.StandardApiResponse
// @Router       /reservations/{id}/pay [post]
func (c *Controller) InitiatePayment(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req InitiatePaymentRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
			return
		}
	}

	session, err := c.service.InitiatePayment(ctx.Request.Context(), actor, id, req.CallbackURL)
	if err != nil {
		c.respondError(ctx, err, "Failed to initiate payment")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Payment initiated successfully", session, nil)
}

func (c *Controller) Verify(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	outcome, err := c.service.Verify(ctx.Request.Context(), actor, id)
	if err != nil {
		c.respondError(ctx, err, "Failed to verify payment")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Payment status checked", outcome, nil)
}

func (c *Controller) Cancel(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	outcome, err := c.service.Cancel(ctx.Request.Context(), actor, id)
	if err != nil {
		c.respondError(ctx, err, "Failed to cancel reservation")
		return
	}
	message := "Reservation cancelled successfully"
	if !outcome.Changed {
		message = "Reservation was not pending, nothing to cancel"
	}
	response.RespondJSON(ctx, "success", http.StatusOK, message, outcome, nil)
}

func (c *Controller) UpdateStatus(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	outcome, err := c.service.UpdateStatus(ctx.Request.Context(), actor, id, req.Statut)
	if err != nil {
		c.respondError(ctx, err, "Failed to update reservation status")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation status updated", outcome, nil)
}

func parseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// StatusFor maps booking errors to HTTP status codes
func StatusFor(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrReservationNotFound), errors.Is(err, ErrTrajetNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotPayable), errors.Is(err, ErrPaymentInProgress),
		errors.Is(err, ErrNoTransaction), errors.Is(err, ErrReceiptUnavailable):
		return http.StatusConflict
	case IsPaymentInitiation(err), IsReconciliation(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (c *Controller) respondError(ctx *gin.Context, err error, message string) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		response.RespondJSON(ctx, "error", code, message, nil, err.Error())
		return
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		response.RespondJSON(ctx, "error", code, "Validation failed", nil, map[string]string{vErr.Field: vErr.Msg})
		return
	}
	response.RespondJSON(ctx, "error", code, err.Error(), nil, nil)
}
