package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/kliqtmedia/ms-go-billing/app/factory"
	"github.com/kliqtmedia/ms-go-billing/app/identity"
	"github.com/kliqtmedia/ms-go-billing/app/mapper"
	"github.com/kliqtmedia/ms-go-billing/app/service"
	"github.com/kliqtmedia/ms-go-billing/app/types"
)

type APIKeyController struct {
	apiKeyService *service.APIKeyService
	verifier      identity.Verifier
	logger        logrus.FieldLogger
}

func NewAPIKeyController(apiKeyService *service.APIKeyService, verifier identity.Verifier) *APIKeyController {
	return &APIKeyController{
		apiKeyService: apiKeyService,
		verifier:      verifier,
		logger:        factory.NewModuleLogger("apikeys-controller"),
	}
}

func (c *APIKeyController) GenerateKey(ctx echo.Context) error {
	user, err := c.verifier.VerifyToken(ctx.Request().Context(), bearerToken(ctx))
	if err != nil {
		return writeVerifierError(ctx, c.logger, err)
	}

	req, err := types.NewGenerateAPIKeyRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "", "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, "", err.Error())
	}

	key, err := c.apiKeyService.Generate(ctx.Request().Context(), user.ID, req)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Generate api key failed")
		return writeError(ctx, http.StatusInternalServerError, types.CodeInternalFailure, "internal server error")
	}

	return ctx.JSON(http.StatusCreated, mapper.NewAPIKeyToResponse(key))
}

func (c *APIKeyController) ListKeys(ctx echo.Context) error {
	user, err := c.verifier.VerifyToken(ctx.Request().Context(), bearerToken(ctx))
	if err != nil {
		return writeVerifierError(ctx, c.logger, err)
	}

	keys, err := c.apiKeyService.ListForUser(ctx.Request().Context(), user.ID)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List api keys failed")
		return writeError(ctx, http.StatusInternalServerError, types.CodeInternalFailure, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListAPIKeysResponse{Keys: mapper.APIKeysToResponse(keys)})
}

// writeVerifierError maps identity verification failures onto the HTTP
// response. It always writes, so handlers must return immediately.
func writeVerifierError(ctx echo.Context, logger logrus.FieldLogger, err error) error {
	switch {
	case errors.Is(err, identity.ErrInvalidToken):
		return writeError(ctx, http.StatusUnauthorized, "", "invalid or missing access token")
	case errors.Is(err, identity.ErrBackendUnavailable):
		return writeError(ctx, http.StatusServiceUnavailable, "", "identity backend unavailable")
	default:
		factory.LoggerWithContext(logger, ctx).WithError(err).Error("Token verification failed")
		return writeError(ctx, http.StatusInternalServerError, types.CodeInternalFailure, "internal server error")
	}
}

func bearerToken(ctx echo.Context) string {
	header := strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderAuthorization))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
