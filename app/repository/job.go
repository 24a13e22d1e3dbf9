package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/kliqtmedia/ms-go-billing/app/entity"
)

type JobFilter struct {
	Type         string
	Category     string
	FeaturedOnly bool
	Limit        int32
	Offset       int32
}

type JobRepository struct {
	db DBTX
}

func NewJobRepository(db DBTX) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, job *entity.Job) error {
	query := `
		INSERT INTO jobs (
			title, description, type, category, budget_min, budget_max, currency,
			location, remote, featured, urgent, status, views_count, applications_count,
			posted_by, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		job.Title,
		job.Description,
		job.Type,
		job.Category,
		nullableInt64Value(job.BudgetMin),
		nullableInt64Value(job.BudgetMax),
		job.Currency,
		nullableStringValue(job.Location),
		job.Remote,
		job.Featured,
		job.Urgent,
		job.Status,
		job.ViewsCount,
		job.ApplicationsCount,
		nullableStringValue(job.PostedBy),
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	job.ID = uint64(id)
	return nil
}

func (r *JobRepository) List(ctx context.Context, filter JobFilter) ([]*entity.Job, error) {
	query := `
		SELECT id, title, description, type, category, budget_min, budget_max, currency,
			location, remote, featured, urgent, status, views_count, applications_count,
			posted_by, created_at, updated_at
		FROM jobs
		WHERE status = ?
	`

	args := []interface{}{entity.JobStatusActive}

	if strings.TrimSpace(filter.Type) != "" {
		query += " AND type = ?"
		args = append(args, filter.Type)
	}
	if strings.TrimSpace(filter.Category) != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.FeaturedOnly {
		query += " AND featured = TRUE"
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*entity.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

func scanJob(scan rowScanner) (*entity.Job, error) {
	job := &entity.Job{}
	var budgetMin, budgetMax sql.NullInt64
	var location, postedBy sql.NullString

	err := scan.Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&job.Type,
		&job.Category,
		&budgetMin,
		&budgetMax,
		&job.Currency,
		&location,
		&job.Remote,
		&job.Featured,
		&job.Urgent,
		&job.Status,
		&job.ViewsCount,
		&job.ApplicationsCount,
		&postedBy,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.BudgetMin = int64PtrFromNull(budgetMin)
	job.BudgetMax = int64PtrFromNull(budgetMax)
	job.Location = stringPtrFromNull(location)
	job.PostedBy = stringPtrFromNull(postedBy)

	return job, nil
}
