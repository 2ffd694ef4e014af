package model

import (
	"time"

	"github.com/novique-ai/roi-cli/internal/roi"
)

// SubmissionStatus tracks follow-up on a calculator lead.
type SubmissionStatus string

const (
	SubmissionStatusNew       SubmissionStatus = "new"
	SubmissionStatusNotified  SubmissionStatus = "notified"
	SubmissionStatusContacted SubmissionStatus = "contacted"
)

// Submission is a calculator result a prospect sent in with their email.
type Submission struct {
	ID                  string             `json:"id"`
	Email               string             `json:"email"`
	Segment             roi.Segment        `json:"segment,omitempty"`
	Industry            string             `json:"industry"`
	EmployeesImpacted   float64            `json:"employees_impacted"`
	SelectedWorkflowIDs []string           `json:"selected_workflow_ids"`
	Scenario            roi.Scenario       `json:"scenario"`
	Results             roi.Results        `json:"results"`
	Pricing             roi.DerivedPricing `json:"pricing"`
	Status              SubmissionStatus   `json:"status"`
	CreatedAt           time.Time          `json:"created_at"`
}

// SubmissionFilter specifies criteria for listing submissions.
type SubmissionFilter struct {
	Email  string           `json:"email,omitempty"`
	Status SubmissionStatus `json:"status,omitempty"`
	Limit  int              `json:"limit,omitempty"`
	Offset int              `json:"offset,omitempty"`
}

// PricingSettingsRecord is the stored pricing configuration override.
type PricingSettingsRecord struct {
	Settings  roi.PricingSettings `json:"settings"`
	UpdatedAt time.Time           `json:"updated_at"`
}
