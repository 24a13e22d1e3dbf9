package service

import (
	"context"
	"time"

	"github.com/kliqtmedia/ms-go-billing/app/entity"
	"github.com/kliqtmedia/ms-go-billing/app/repository"
	"github.com/kliqtmedia/ms-go-billing/app/types"
)

const defaultJobCurrency = "GBP"

type jobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	List(ctx context.Context, filter repository.JobFilter) ([]*entity.Job, error)
}

type JobService struct {
	jobRepo jobRepository
}

func NewJobService(jobRepo jobRepository) *JobService {
	return &JobService{jobRepo: jobRepo}
}

func (s *JobService) ListJobs(ctx context.Context, req *types.ListJobsRequest) ([]*entity.Job, error) {
	return s.jobRepo.List(ctx, repository.JobFilter{
		Type:         req.Type,
		Category:     req.Category,
		FeaturedOnly: req.FeaturedOnly,
		Limit:        req.Limit,
		Offset:       req.Offset,
	})
}

// PostJob creates a listing on behalf of the API key that authenticated
// the request. Jobs default to remote unless the poster says otherwise.
func (s *JobService) PostJob(ctx context.Context, req *types.PostJobRequest, key *entity.APIKey) (*entity.Job, error) {
	remote := true
	if req.Remote != nil {
		remote = *req.Remote
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultJobCurrency
	}

	now := time.Now().UTC()
	job := &entity.Job{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Category:    req.Category,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		Currency:    currency,
		Location:    optionalString(req.Location),
		Remote:      remote,
		Featured:    req.Featured,
		Urgent:      req.Urgent,
		Status:      entity.JobStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if key != nil {
		job.PostedBy = optionalString(key.UserID)
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	return job, nil
}
