package receipts

import (
	"net/http"

	"busbenin/internal/reservations"
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

// Download godoc
// @Summary      Download the PDF receipt of a confirmed reservation
// @Tags         reservations
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id      path   string  true   "Reservation ID"
// @Param        layout  query  string  false  "desktop or mobile"
// @Success      200
// @Failure      409  {object}  response.StandardApiResponse
// @Router       /reservations/{id}/receipt [get]
func (c *Controller) Download(ctx *gin.Context) {
	actor, _ := middleware.CurrentActor(ctx)

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation ID", nil, err.Error())
		return
	}
	layout, err := ParseLayout(ctx.Query("layout"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid layout", nil, err.Error())
		return
	}

	doc, err := c.service.Generate(ctx.Request.Context(), actor, id, layout)
	if err != nil {
		code := reservations.StatusFor(err)
		if code == http.StatusInternalServerError {
			response.RespondJSON(ctx, "error", code, "Failed to generate receipt", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", code, err.Error(), nil, nil)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	ctx.Data(http.StatusOK, doc.ContentType, doc.Content)
}
