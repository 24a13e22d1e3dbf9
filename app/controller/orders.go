package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/kliqtmedia/ms-go-billing/app/factory"
	"github.com/kliqtmedia/ms-go-billing/app/identity"
	"github.com/kliqtmedia/ms-go-billing/app/mapper"
	"github.com/kliqtmedia/ms-go-billing/app/service"
	"github.com/kliqtmedia/ms-go-billing/app/types"
)

// OrderController serves the customer dashboard. Results are always
// scoped to the email of the authenticated user; the query parameter is
// ignored.
type OrderController struct {
	orderService *service.OrderService
	verifier     identity.Verifier
	logger       logrus.FieldLogger
}

func NewOrderController(orderService *service.OrderService, verifier identity.Verifier) *OrderController {
	return &OrderController{
		orderService: orderService,
		verifier:     verifier,
		logger:       factory.NewModuleLogger("orders-controller"),
	}
}

func (c *OrderController) ListOrders(ctx echo.Context) error {
	user, err := c.verifier.VerifyToken(ctx.Request().Context(), bearerToken(ctx))
	if err != nil {
		return writeVerifierError(ctx, c.logger, err)
	}
	if user.Email == "" {
		return writeError(ctx, http.StatusForbidden, "", "account has no email on record")
	}

	req, err := types.NewListOrdersRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "", "invalid request")
	}
	req.CustomerEmail = user.Email
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, "", err.Error())
	}

	orders, err := c.orderService.ListOrders(ctx.Request().Context(), req)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List orders failed")
		return writeError(ctx, http.StatusInternalServerError, types.CodeInternalFailure, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListOrdersResponse{
		Orders: mapper.OrdersToResponse(orders),
		Limit:  req.Limit,
		Offset: req.Offset,
	})
}

func (c *OrderController) ListPayments(ctx echo.Context) error {
	user, err := c.verifier.VerifyToken(ctx.Request().Context(), bearerToken(ctx))
	if err != nil {
		return writeVerifierError(ctx, c.logger, err)
	}
	if user.Email == "" {
		return writeError(ctx, http.StatusForbidden, "", "account has no email on record")
	}

	req, err := types.NewListOrdersRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "", "invalid request")
	}
	req.CustomerEmail = user.Email
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, "", err.Error())
	}

	payments, err := c.orderService.ListPayments(ctx.Request().Context(), req)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List payments failed")
		return writeError(ctx, http.StatusInternalServerError, types.CodeInternalFailure, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListPaymentsResponse{
		Payments: mapper.PaymentsToResponse(payments),
		Limit:    req.Limit,
		Offset:   req.Offset,
	})
}
