package entity

import "time"

const (
	JobTypeWanted    = "wanted"
	JobTypeAvailable = "available"

	JobStatusActive = "active"
	JobStatusClosed = "closed"
)

type Job struct {
	ID uint64

	Title       string
	Description string
	Type        string
	Category    string

	BudgetMin *int64
	BudgetMax *int64
	Currency  string

	Location *string
	Remote   bool
	Featured bool
	Urgent   bool

	Status string

	ViewsCount        int64
	ApplicationsCount int64

	PostedBy *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
