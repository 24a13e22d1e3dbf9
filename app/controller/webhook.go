package controller

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/kliqtmedia/ms-go-billing/app/factory"
	"github.com/kliqtmedia/ms-go-billing/app/service"
	"github.com/kliqtmedia/ms-go-billing/app/types"
)

const webhookMaxBodyBytes = 1 << 20

type WebhookController struct {
	webhookService *service.WebhookService
	logger         logrus.FieldLogger
}

func NewWebhookController(webhookService *service.WebhookService) *WebhookController {
	return &WebhookController{
		webhookService: webhookService,
		logger:         factory.NewModuleLogger("webhook-controller"),
	}
}

// HandleStripeEvent reads the raw payload before any body parsing; the
// signature covers the exact bytes Stripe sent.
func (c *WebhookController) HandleStripeEvent(ctx echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request().Body, webhookMaxBodyBytes))
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "", "unable to read request body")
	}

	signature := strings.TrimSpace(ctx.Request().Header.Get("Stripe-Signature"))

	if err := c.webhookService.HandleEvent(ctx.Request().Context(), payload, signature); err != nil {
		switch {
		case errors.Is(err, service.ErrEventRejected):
			return writeError(ctx, http.StatusBadRequest, types.CodeInvalidSignature, "event signature verification failed")
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Webhook event processing failed")
			return writeError(ctx, http.StatusInternalServerError, types.CodeInternalFailure, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.WebhookAckResponse{Received: true})
}
