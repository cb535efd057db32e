// internal/models/job.go
package models

import "time"

// Status is the job posting lifecycle state.
type Status string

const (
	StatusDraft          Status = "draft"
	StatusPendingPayment Status = "pending_payment"
	StatusActive         Status = "active"
	StatusPaused         Status = "paused"
	StatusClosed         Status = "closed"
)

// Location identifies where a job is based.
type Location struct {
	City   string `json:"city"`
	Region string `json:"region,omitempty"`
}

// Pricing is the price breakdown computed once at creation. It is immutable
// afterward unless the job is explicitly re-priced.
type Pricing struct {
	BasePrice       int      `json:"basePrice"`
	Discount        int      `json:"discount"`
	PriceIncrease   int      `json:"priceIncrease"`
	FinalPrice      int      `json:"finalPrice"`
	Currency        string   `json:"currency"`
	AppliedRules    []string `json:"appliedRules"`
	CampaignApplied string   `json:"campaignApplied,omitempty"`
}

// Job is a job posting.
type Job struct {
	ID                 string    `json:"id"`
	EmployerID         string    `json:"employerId"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Category           string    `json:"category"`
	JobType            string    `json:"jobType"`
	PlatformCategories []string  `json:"platformCategories,omitempty"`
	Location           Location  `json:"location"`
	Tags               []string  `json:"tags,omitempty"`
	Seniority          string    `json:"seniority,omitempty"`
	Diaspora           bool      `json:"diaspora"`
	Featured           bool      `json:"featured"`
	Tier               string    `json:"tier"`
	DurationDays       int       `json:"durationDays"`
	Pricing            Pricing   `json:"pricing"`
	Status             Status    `json:"status"`
	IsDeleted          bool      `json:"isDeleted"`
	ViewCount          int64     `json:"viewCount"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// JobDraft carries the employer-supplied fields of a new posting.
type JobDraft struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	JobType            string   `json:"jobType"`
	PlatformCategories []string `json:"platformCategories,omitempty"`
	Location           Location `json:"location"`
	Tags               []string `json:"tags,omitempty"`
	Seniority          string   `json:"seniority,omitempty"`
	Diaspora           bool     `json:"diaspora"`
	Featured           bool     `json:"featured"`
	Tier               string   `json:"tier"`
	DurationDays       int      `json:"durationDays"`
}

// ScoredJob is an ephemeral similarity result, computed per request and
// never persisted.
type ScoredJob struct {
	Job   Job     `json:"job"`
	Score float64 `json:"score"`
}
