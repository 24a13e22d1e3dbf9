package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/kliqtmedia/ms-go-billing/app/entity"
	"github.com/kliqtmedia/ms-go-billing/app/factory"
	"github.com/kliqtmedia/ms-go-billing/app/mapper"
	"github.com/kliqtmedia/ms-go-billing/app/service"
	"github.com/kliqtmedia/ms-go-billing/app/types"
)

const apiKeyHeader = "X-API-Key"

// JobController serves the job board. Listing is public; posting
// requires an API key with the post_jobs scope.
type JobController struct {
	jobService    *service.JobService
	apiKeyService *service.APIKeyService
	logger        logrus.FieldLogger
}

func NewJobController(jobService *service.JobService, apiKeyService *service.APIKeyService) *JobController {
	return &JobController{
		jobService:    jobService,
		apiKeyService: apiKeyService,
		logger:        factory.NewModuleLogger("jobs-controller"),
	}
}

func (c *JobController) ListJobs(ctx echo.Context) error {
	req, err := types.NewListJobsRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "", "invalid request")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, "", err.Error())
	}

	jobs, err := c.jobService.ListJobs(ctx.Request().Context(), req)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List jobs failed")
		return writeError(ctx, http.StatusInternalServerError, types.CodeInternalFailure, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ListJobsResponse{
		Jobs:   mapper.JobsToResponse(jobs),
		Limit:  req.Limit,
		Offset: req.Offset,
	})
}

func (c *JobController) PostJob(ctx echo.Context) error {
	rawKey := strings.TrimSpace(ctx.Request().Header.Get(apiKeyHeader))
	key, err := c.apiKeyService.Authenticate(ctx.Request().Context(), rawKey, entity.APIKeyScopePostJobs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAPIKeyNotFound), errors.Is(err, service.ErrAPIKeyExpired):
			return writeError(ctx, http.StatusUnauthorized, "", "invalid or expired api key")
		case errors.Is(err, service.ErrInsufficientScope):
			return writeError(ctx, http.StatusForbidden, "", "api key does not have the required scope")
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("API key authentication failed")
			return writeError(ctx, http.StatusInternalServerError, types.CodeInternalFailure, "internal server error")
		}
	}

	req, err := types.NewPostJobRequestFromContext(ctx)
	if err != nil {
		return writeError(ctx, http.StatusBadRequest, "", "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, http.StatusBadRequest, "", err.Error())
	}

	job, err := c.jobService.PostJob(ctx.Request().Context(), req, key)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Post job failed")
		return writeError(ctx, http.StatusInternalServerError, types.CodeInternalFailure, "internal server error")
	}

	return ctx.JSON(http.StatusCreated, mapper.JobToResponse(job))
}
