package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novique-ai/roi-cli/internal/model"
	"github.com/novique-ai/roi-cli/internal/roi"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

// sampleSubmission builds a submission from a real engine evaluation.
func sampleSubmission(email string) *model.Submission {
	state := roi.MapSegmentToState(roi.SegmentLogistics, roi.DefaultState()).Apply(roi.DefaultState())
	q := roi.Evaluate(state, roi.DefaultPricingSettings())
	return &model.Submission{
		Email:               email,
		Segment:             roi.SegmentLogistics,
		Industry:            state.Company.Industry,
		EmployeesImpacted:   state.Company.EmployeesImpacted,
		SelectedWorkflowIDs: state.EnabledWorkflowIDs(),
		Scenario:            state.Scenario,
		Results:             q.Results,
		Pricing:             q.Pricing,
	}
}

func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("CreateAndGetSubmission", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		sub := sampleSubmission("ops@acme.com")
		require.NoError(t, s.CreateSubmission(ctx, sub))
		assert.NotEmpty(t, sub.ID)
		assert.Equal(t, model.SubmissionStatusNew, sub.Status)
		assert.False(t, sub.CreatedAt.IsZero())

		got, err := s.GetSubmission(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.ID)
		assert.Equal(t, "ops@acme.com", got.Email)
		assert.Equal(t, roi.SegmentLogistics, got.Segment)
		assert.Equal(t, "Logistics & Transportation", got.Industry)
		assert.Equal(t, sub.SelectedWorkflowIDs, got.SelectedWorkflowIDs)
		assert.Equal(t, roi.ScenarioExpected, got.Scenario)
		assert.InDelta(t, sub.Results.TotalBenefitPerMonth, got.Results.TotalBenefitPerMonth, 0.0001)
		assert.Equal(t, sub.Pricing, got.Pricing)
	})

	t.Run("UnboundedPaybackRoundTrips", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		state := roi.DefaultState()
		state.Workflows = nil
		state.Quality.Enabled = false
		state.Revenue.Enabled = false
		q := roi.Evaluate(state, roi.DefaultPricingSettings())
		require.True(t, q.Results.PaybackUnbounded())
		sub := &model.Submission{Email: "none@acme.com", Results: q.Results, Pricing: q.Pricing}
		require.NoError(t, s.CreateSubmission(ctx, sub))

		got, err := s.GetSubmission(ctx, sub.ID)
		require.NoError(t, err)
		assert.True(t, got.Results.PaybackUnbounded())
		assert.Empty(t, got.SelectedWorkflowIDs)
	})

	t.Run("GetSubmissionNotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetSubmission(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("ListSubmissionsFilters", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for i, email := range []string{"a@acme.com", "b@acme.com", "a@acme.com"} {
			sub := sampleSubmission(email)
			sub.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
			require.NoError(t, s.CreateSubmission(ctx, sub))
		}

		all, err := s.ListSubmissions(ctx, model.SubmissionFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)
		// Newest first.
		assert.Equal(t, "a@acme.com", all[0].Email)

		byEmail, err := s.ListSubmissions(ctx, model.SubmissionFilter{Email: "a@acme.com"})
		require.NoError(t, err)
		assert.Len(t, byEmail, 2)

		limited, err := s.ListSubmissions(ctx, model.SubmissionFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, "b@acme.com", limited[0].Email)
	})

	t.Run("UpdateSubmissionStatus", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		sub := sampleSubmission("c@acme.com")
		require.NoError(t, s.CreateSubmission(ctx, sub))
		require.NoError(t, s.UpdateSubmissionStatus(ctx, sub.ID, model.SubmissionStatusNotified))

		got, err := s.GetSubmission(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, model.SubmissionStatusNotified, got.Status)

		notified, err := s.ListSubmissions(ctx, model.SubmissionFilter{Status: model.SubmissionStatusNotified})
		require.NoError(t, err)
		assert.Len(t, notified, 1)

		err = s.UpdateSubmissionStatus(ctx, "missing", model.SubmissionStatusContacted)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("PricingSettings", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		got, err := s.GetPricingSettings(ctx)
		require.NoError(t, err)
		assert.Nil(t, got)

		_, err = s.SetPricingSettings(ctx, roi.PricingSettings{MonthlyValueMultiplier: 0.2, OneTimeChargeMultiplier: 2})
		require.NoError(t, err)
		rec, err := s.SetPricingSettings(ctx, roi.PricingSettings{MonthlyValueMultiplier: 0.25, OneTimeChargeMultiplier: 4})
		require.NoError(t, err)
		assert.False(t, rec.UpdatedAt.IsZero())

		got, err = s.GetPricingSettings(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.InDelta(t, 0.25, got.Settings.MonthlyValueMultiplier, 0.0001)
		assert.InDelta(t, 4, got.Settings.OneTimeChargeMultiplier, 0.0001)
	})
}

func TestSQLiteStore(t *testing.T) {
	storeTestSuite(t, newTestSQLite)
}
