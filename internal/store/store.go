package store

import (
	"context"
	"errors"

	"github.com/novique-ai/roi-cli/internal/model"
	"github.com/novique-ai/roi-cli/internal/roi"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for calculator submissions and
// pricing settings.
type Store interface {
	// Submissions
	CreateSubmission(ctx context.Context, sub *model.Submission) error
	GetSubmission(ctx context.Context, id string) (*model.Submission, error)
	ListSubmissions(ctx context.Context, filter model.SubmissionFilter) ([]model.Submission, error)
	UpdateSubmissionStatus(ctx context.Context, id string, status model.SubmissionStatus) error

	// Pricing settings. Get returns nil when no override is stored.
	GetPricingSettings(ctx context.Context) (*model.PricingSettingsRecord, error)
	SetPricingSettings(ctx context.Context, settings roi.PricingSettings) (*model.PricingSettingsRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

const defaultListLimit = 100
