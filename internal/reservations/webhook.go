package reservations

import (
	"errors"
	"io"
	"net/http"
	"time"

	"busbenin/internal/shared/utils/response"
	"busbenin/pkg/fedapay"
	"busbenin/pkg/logger"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

// WebhookController receives FedaPay transaction events. The event body is
// only used to find the transaction; its status is always fetched again.
type WebhookController struct {
	service Service
	secret  string
	log     *logger.Logger
	now     func() time.Time
}

// NewWebhookController builds the handler; an empty secret disables signature checks
func NewWebhookController(service Service, secret string, log *logger.Logger) *WebhookController {
	return &WebhookController{service: service, secret: secret, log: log, now: time.Now}
}

// Handle godoc
// @Summary      FedaPay webhook
// @Tags         payments
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.StandardApiResponse
// @Failure      401  {object}  response.StandardApiResponse
// @Router       /payments/webhook [post]
func (w *WebhookController) Handle(ctx *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxWebhookBody))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Unreadable body", nil, err.Error())
		return
	}

	if w.secret != "" {
		header := ctx.GetHeader(fedapay.SignatureHeader)
		if err := fedapay.VerifySignature(body, header, w.secret, fedapay.DefaultSignatureTolerance, w.now()); err != nil {
			w.log.LogWebhookRejected(ctx.Request.Context(), ctx.ClientIP(), err)
			response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid signature", nil, nil)
			return
		}
	}

	event, err := fedapay.ParseEvent(body)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event", nil, err.Error())
		return
	}

	outcome, err := w.service.ReconcileTransaction(ctx.Request.Context(), event.Entity.ID.String())
	switch {
	case err == nil:
		response.RespondJSON(ctx, "success", http.StatusOK, "Event processed", gin.H{
			"reservation_id": outcome.Reservation.ID,
			"statut":         outcome.Reservation.Statut,
			"changed":        outcome.Changed,
		}, nil)
	case errors.Is(err, ErrReservationNotFound):
		// not one of ours; acknowledge so FedaPay stops retrying
		w.log.InfoContext(ctx.Request.Context(), "webhook for unknown transaction",
			"transaction_id", event.Entity.ID.String(), "event", event.Name)
		response.RespondJSON(ctx, "success", http.StatusOK, "Event ignored", nil, nil)
	default:
		w.log.ErrorContext(ctx.Request.Context(), "webhook reconciliation failed",
			"transaction_id", event.Entity.ID.String(), "error", err)
		response.RespondJSON(ctx, "error", StatusFor(err), "Failed to process event", nil, err.Error())
	}
}
