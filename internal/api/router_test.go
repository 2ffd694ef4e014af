package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novique-ai/roi-cli/internal/intake"
	"github.com/novique-ai/roi-cli/internal/model"
	"github.com/novique-ai/roi-cli/internal/roi"
	"github.com/novique-ai/roi-cli/internal/store"
)

func newTestRouter(t *testing.T, opts Options) (http.Handler, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	svc := intake.NewService(st, nil, roi.DefaultPricingSettings())
	return NewRouter(svc, opts), st
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t, Options{})
	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCatalogEndpoints(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	rec := do(t, h, http.MethodGet, "/api/roi/workflows", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var catalog catalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	assert.Len(t, catalog.Workflows, len(roi.Workflows()))
	assert.Equal(t, 30.0, catalog.Workflows[0].EventsPerWeek)
	assert.Len(t, catalog.Scenarios, 3)
	assert.InDelta(t, 4.33, catalog.WeeksPerMonth, 0.0001)

	rec = do(t, h, http.MethodGet, "/api/roi/plans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var plans []roi.PlanDefinition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plans))
	require.Len(t, plans, 3)
	assert.Equal(t, roi.TierStarter, plans[0].ID)
	assert.Nil(t, plans[2].MonthlyValue.Max)

	rec = do(t, h, http.MethodGet, "/api/roi/segments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var segs []roi.SegmentMeta
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &segs))
	assert.Len(t, segs, 4)
}

func TestGetSegment(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	rec := do(t, h, http.MethodGet, "/api/roi/segments/healthcare", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp segmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, roi.SegmentHealthcare, resp.Segment.ID)
	assert.Equal(t, 12.0, resp.State.Company.EmployeesImpacted)
	assert.Equal(t, 42.0, resp.State.Costs.HourlyRate)
	assert.ElementsMatch(t,
		[]string{"appointment-scheduling", "document-intake", "customer-inquiries", "invoice-processing"},
		resp.State.EnabledWorkflowIDs())

	rec = do(t, h, http.MethodGet, "/api/roi/segments/retail", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalculate(t *testing.T) {
	h, _ := newTestRouter(t, Options{})
	state := roi.MapSegmentToState(roi.SegmentLogistics, roi.DefaultState()).Apply(roi.DefaultState())

	rec := do(t, h, http.MethodPost, "/api/roi/calculate", calculateRequest{State: state})
	require.Equal(t, http.StatusOK, rec.Code)

	var got roi.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	want := roi.Evaluate(state, roi.DefaultPricingSettings())
	assert.InDelta(t, want.Results.TotalBenefitPerMonth, got.Results.TotalBenefitPerMonth, 0.001)
	assert.Equal(t, want.Pricing, got.Pricing)
	assert.InDelta(t, want.NetBenefitAtDerivedFee, got.NetBenefitAtDerivedFee, 0.001)
}

func TestCalculate_UnboundedPaybackIsNull(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	rec := do(t, h, http.MethodPost, "/api/roi/calculate", calculateRequest{State: roi.DefaultState()})
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	v, ok := raw["results"]["payback_months"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestCalculate_BadRequests(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/roi/calculate", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/roi/calculate", calculateRequest{State: roi.DefaultState(), SelectedTier: "gold"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	state := roi.DefaultState()
	state.Scenario = "wild"
	rec = do(t, h, http.MethodPost, "/api/roi/calculate", calculateRequest{State: state})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculate_TierCarriedInState(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	state := roi.DefaultState()
	state.Novique.SelectedTier = "Scale"
	rec := do(t, h, http.MethodPost, "/api/roi/calculate", calculateRequest{State: state})
	require.Equal(t, http.StatusOK, rec.Code)

	var got roi.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, roi.TierScale, got.Pricing.CustomerSelectedTier)
	assert.Equal(t, roi.TierScale, got.Pricing.FinalTier)

	state.Novique.SelectedTier = "enterprize"
	rec = do(t, h, http.MethodPost, "/api/roi/calculate", calculateRequest{State: state})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "state.novique.selected_tier")

	// The top-level tier replaces the one in state.
	rec = do(t, h, http.MethodPost, "/api/roi/calculate", calculateRequest{State: state, SelectedTier: "growth"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, roi.TierGrowth, got.Pricing.FinalTier)
}

func TestSubmit(t *testing.T) {
	h, st := newTestRouter(t, Options{SubmitRatePerMin: 60, SubmitBurst: 5})
	state := roi.MapSegmentToState(roi.SegmentRealEstate, roi.DefaultState()).Apply(roi.DefaultState())

	rec := do(t, h, http.MethodPost, "/api/roi/submissions", intake.Request{
		Email:   "agent@realty.com",
		Segment: roi.SegmentRealEstate,
		State:   state,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sub model.Submission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, "Real Estate", sub.Industry)

	subs, err := st.ListSubmissions(context.Background(), model.SubmissionFilter{})
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	rec = do(t, h, http.MethodPost, "/api/roi/submissions", intake.Request{State: state})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email")
}

func TestSubmit_RateLimited(t *testing.T) {
	h, _ := newTestRouter(t, Options{SubmitRatePerMin: 1, SubmitBurst: 2})
	body := intake.Request{Email: "a@acme.com", State: roi.DefaultState()}

	assert.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/roi/submissions", body).Code)
	assert.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/roi/submissions", body).Code)

	rec := do(t, h, http.MethodPost, "/api/roi/submissions", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestPricingSettings(t *testing.T) {
	h, st := newTestRouter(t, Options{})

	rec := do(t, h, http.MethodGet, "/api/roi/pricing-settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"monthly_value_multiplier":0.15,"one_time_charge_multiplier":3}`, rec.Body.String())

	_, err := st.SetPricingSettings(context.Background(), roi.PricingSettings{MonthlyValueMultiplier: 0.2, OneTimeChargeMultiplier: 2})
	require.NoError(t, err)
	rec = do(t, h, http.MethodGet, "/api/roi/pricing-settings", nil)
	assert.JSONEq(t, `{"monthly_value_multiplier":0.2,"one_time_charge_multiplier":2}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestRouter(t, Options{CORSOrigins: []string{"https://novique.ai"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/roi/calculate", nil)
	req.Header.Set("Origin", "https://novique.ai")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://novique.ai", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestIPLimiter_PerClientAndPrune(t *testing.T) {
	l := newIPLimiter(60, 1)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"))

	now = now.Add(time.Second)
	assert.True(t, l.allow("10.0.0.1"))

	now = now.Add(limiterIdleTTL + time.Minute)
	l.prune(now)
	assert.Empty(t, l.visitors)
}
