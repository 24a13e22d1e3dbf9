package mapper

import (
	"github.com/kliqtmedia/ms-go-billing/app/entity"
	"github.com/kliqtmedia/ms-go-billing/app/types"
)

func JobToResponse(job *entity.Job) *types.JobResponse {
	location := ""
	if job.Location != nil {
		location = *job.Location
	}

	return &types.JobResponse{
		ID:          job.ID,
		Title:       job.Title,
		Description: job.Description,
		Type:        job.Type,
		Category:    job.Category,
		Budget: types.JobBudgetResponse{
			Min:      job.BudgetMin,
			Max:      job.BudgetMax,
			Currency: job.Currency,
		},
		Location:     location,
		Remote:       job.Remote,
		Featured:     job.Featured,
		Urgent:       job.Urgent,
		Status:       job.Status,
		Views:        job.ViewsCount,
		Applications: job.ApplicationsCount,
		CreatedAt:    formatTime(job.CreatedAt),
	}
}

func JobsToResponse(jobs []*entity.Job) []*types.JobResponse {
	out := make([]*types.JobResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, JobToResponse(job))
	}
	return out
}
