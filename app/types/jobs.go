package types

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kliqtmedia/ms-go-billing/app/entity"
)

type ListJobsRequest struct {
	Type         string
	Category     string
	FeaturedOnly bool
	Limit        int32
	Offset       int32
}

func NewListJobsRequestFromContext(ctx echo.Context) (*ListJobsRequest, error) {
	req := &ListJobsRequest{
		Type:     strings.ToLower(strings.TrimSpace(ctx.QueryParam("type"))),
		Category: strings.TrimSpace(ctx.QueryParam("category")),
		Limit:    20,
		Offset:   0,
	}

	if featuredRaw := strings.TrimSpace(ctx.QueryParam("featured")); featuredRaw != "" {
		featured, err := strconv.ParseBool(featuredRaw)
		if err != nil {
			return nil, err
		}
		req.FeaturedOnly = featured
	}

	if limitRaw := strings.TrimSpace(ctx.QueryParam("limit")); limitRaw != "" {
		limit, err := strconv.ParseInt(limitRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.Limit = int32(limit)
	}

	if offsetRaw := strings.TrimSpace(ctx.QueryParam("offset")); offsetRaw != "" {
		offset, err := strconv.ParseInt(offsetRaw, 10, 32)
		if err != nil {
			return nil, err
		}
		req.Offset = int32(offset)
	}

	return req, nil
}

func (r *ListJobsRequest) Validate() error {
	if r.Type != "" && r.Type != entity.JobTypeWanted && r.Type != entity.JobTypeAvailable {
		return errors.New("type must be wanted or available")
	}
	if r.Limit <= 0 || r.Limit > 100 {
		return errors.New("limit must be between 1 and 100")
	}
	if r.Offset < 0 {
		return errors.New("offset must be >= 0")
	}
	return nil
}

type PostJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	BudgetMin   *int64 `json:"budget_min"`
	BudgetMax   *int64 `json:"budget_max"`
	Currency    string `json:"currency"`
	Location    string `json:"location"`
	Remote      *bool  `json:"remote"`
	Featured    bool   `json:"featured"`
	Urgent      bool   `json:"urgent"`
}

func NewPostJobRequestFromContext(ctx echo.Context) (*PostJobRequest, error) {
	var body PostJobRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.Title = strings.TrimSpace(body.Title)
	body.Description = strings.TrimSpace(body.Description)
	body.Type = strings.ToLower(strings.TrimSpace(body.Type))
	body.Category = strings.TrimSpace(body.Category)
	body.Currency = strings.ToUpper(strings.TrimSpace(body.Currency))
	body.Location = strings.TrimSpace(body.Location)

	return &body, nil
}

func (r *PostJobRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required")
	}
	if r.Description == "" {
		return errors.New("description is required")
	}
	if r.Type != entity.JobTypeWanted && r.Type != entity.JobTypeAvailable {
		return errors.New("type must be wanted or available")
	}
	if r.Category == "" {
		return errors.New("category is required")
	}
	if r.Currency != "" && len(r.Currency) != 3 {
		return errors.New("currency must be 3 letters")
	}
	if r.BudgetMin != nil && *r.BudgetMin < 0 {
		return errors.New("budget_min must be >= 0")
	}
	if r.BudgetMax != nil && *r.BudgetMax < 0 {
		return errors.New("budget_max must be >= 0")
	}
	if r.BudgetMin != nil && r.BudgetMax != nil && *r.BudgetMax < *r.BudgetMin {
		return errors.New("budget_max must be >= budget_min")
	}
	return nil
}

type JobBudgetResponse struct {
	Min      *int64 `json:"min,omitempty"`
	Max      *int64 `json:"max,omitempty"`
	Currency string `json:"currency"`
}

type JobResponse struct {
	ID           uint64            `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Type         string            `json:"type"`
	Category     string            `json:"category"`
	Budget       JobBudgetResponse `json:"budget"`
	Location     string            `json:"location,omitempty"`
	Remote       bool              `json:"remote"`
	Featured     bool              `json:"featured"`
	Urgent       bool              `json:"urgent"`
	Status       string            `json:"status"`
	Views        int64             `json:"views"`
	Applications int64             `json:"applications"`
	CreatedAt    string            `json:"created_at"`
}

type ListJobsResponse struct {
	Jobs   []*JobResponse `json:"jobs"`
	Limit  int32          `json:"limit"`
	Offset int32          `json:"offset"`
}
