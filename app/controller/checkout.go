package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/kliqtmedia/ms-go-billing/app/factory"
	"github.com/kliqtmedia/ms-go-billing/app/service"
	"github.com/kliqtmedia/ms-go-billing/app/types"
)

type CheckoutController struct {
	checkoutService *service.CheckoutService
	logger          logrus.FieldLogger
}

func NewCheckoutController(checkoutService *service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
		logger:          factory.NewModuleLogger("checkout-controller"),
	}
}

func (c *CheckoutController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *CheckoutController) CreateCheckoutSession(ctx echo.Context) error {
	req, err := types.NewCreateCheckoutSessionRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "", "invalid request body")
	}
	if err := req.Validate(); err != nil {
		if req.PriceID == "" {
			return writeError(ctx, http.StatusBadRequest, types.CodeMissingPriceReference, err.Error())
		}
		return writeError(ctx, http.StatusBadRequest, "", err.Error())
	}

	output, err := c.checkoutService.CreateSession(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingPriceReference):
			return writeError(ctx, http.StatusBadRequest, types.CodeMissingPriceReference, err.Error())
		case errors.Is(err, service.ErrInvalidPriceReference):
			return writeError(ctx, http.StatusBadRequest, types.CodeInvalidPriceReference, err.Error())
		case errors.Is(err, service.ErrGatewayUnavailable):
			return writeError(ctx, http.StatusBadGateway, types.CodeGatewayUnavailable, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Create checkout session failed")
			return writeError(ctx, http.StatusInternalServerError, types.CodeInternalFailure, "internal server error")
		}
	}

	return ctx.JSON(http.StatusCreated, &types.CheckoutSessionResponse{
		SessionID: output.SessionID,
		URL:       output.RedirectURL,
	})
}

func writeError(ctx echo.Context, statusCode int, code, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Code: code, Error: message})
}
