package service

import (
	"context"
	"testing"

	"github.com/kliqtmedia/ms-go-billing/app/entity"
	"github.com/kliqtmedia/ms-go-billing/app/repository"
	"github.com/kliqtmedia/ms-go-billing/app/types"
)

type fakeJobRepo struct {
	jobs       []*entity.Job
	lastFilter repository.JobFilter
}

func (r *fakeJobRepo) Create(_ context.Context, job *entity.Job) error {
	copyItem := *job
	copyItem.ID = uint64(len(r.jobs) + 1)
	r.jobs = append(r.jobs, &copyItem)
	job.ID = copyItem.ID
	return nil
}

func (r *fakeJobRepo) List(_ context.Context, filter repository.JobFilter) ([]*entity.Job, error) {
	r.lastFilter = filter
	return r.jobs, nil
}

func TestPostJobDefaults(t *testing.T) {
	repo := &fakeJobRepo{}
	svc := NewJobService(repo)

	job, err := svc.PostJob(context.Background(), &types.PostJobRequest{
		Title:       "Video editor needed",
		Description: "Short-form edits for social",
		Type:        entity.JobTypeWanted,
		Category:    "video",
	}, &entity.APIKey{UserID: "user-1"})
	if err != nil {
		t.Fatalf("post job failed: %v", err)
	}

	if job.Currency != "GBP" {
		t.Fatalf("currency defaults to GBP, got %s", job.Currency)
	}
	if !job.Remote {
		t.Fatal("jobs default to remote")
	}
	if job.Status != entity.JobStatusActive {
		t.Fatalf("new jobs start active, got %s", job.Status)
	}
	if job.PostedBy == nil || *job.PostedBy != "user-1" {
		t.Fatal("expected job attributed to the posting key's user")
	}
}

func TestPostJobHonorsExplicitRemoteFalse(t *testing.T) {
	repo := &fakeJobRepo{}
	svc := NewJobService(repo)

	remote := false
	job, err := svc.PostJob(context.Background(), &types.PostJobRequest{
		Title:       "Studio sound engineer",
		Description: "On-site work in Cardiff",
		Type:        entity.JobTypeAvailable,
		Category:    "audio",
		Remote:      &remote,
	}, nil)
	if err != nil {
		t.Fatalf("post job failed: %v", err)
	}
	if job.Remote {
		t.Fatal("explicit remote=false must be honored")
	}
}

func TestListJobsPassesFilter(t *testing.T) {
	repo := &fakeJobRepo{}
	svc := NewJobService(repo)

	_, err := svc.ListJobs(context.Background(), &types.ListJobsRequest{
		Type:         entity.JobTypeWanted,
		Category:     "video",
		FeaturedOnly: true,
		Limit:        10,
		Offset:       20,
	})
	if err != nil {
		t.Fatalf("list jobs failed: %v", err)
	}

	filter := repo.lastFilter
	if filter.Type != entity.JobTypeWanted || filter.Category != "video" || !filter.FeaturedOnly {
		t.Fatalf("unexpected filter: %+v", filter)
	}
	if filter.Limit != 10 || filter.Offset != 20 {
		t.Fatalf("unexpected paging: %+v", filter)
	}
}
