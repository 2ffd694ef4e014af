package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novique-ai/roi-cli/internal/config"
	"github.com/novique-ai/roi-cli/internal/model"
	"github.com/novique-ai/roi-cli/internal/roi"
)

func testSubmission() *model.Submission {
	return &model.Submission{
		ID:      "sub-1",
		Email:   "ops@acme.com",
		Segment: roi.SegmentHealthcare,
		Pricing: roi.DerivedPricing{MonthlyFee: 1250, FinalTier: roi.TierGrowth},
	}
}

func newTestWebhook(url string, attempts int) *Webhook {
	w := NewWebhook(config.NotifyConfig{WebhookURL: url, MaxAttempts: attempts, TimeoutSecs: 2})
	w.retry.InitialBackoff = time.Millisecond
	w.retry.MaxBackoff = 2 * time.Millisecond
	return w
}

func TestWebhook_PostsEvent(t *testing.T) {
	var got Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	err := newTestWebhook(srv.URL, 1).NotifySubmission(context.Background(), testSubmission())
	require.NoError(t, err)
	assert.Equal(t, EventSubmission, got.Type)
	require.NotNil(t, got.Submission)
	assert.Equal(t, "ops@acme.com", got.Submission.Email)
	assert.Equal(t, roi.TierGrowth, got.Submission.Pricing.FinalTier)
	assert.False(t, got.SentAt.IsZero())
}

func TestWebhook_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestWebhook(srv.URL, 3).NotifySubmission(context.Background(), testSubmission())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWebhook_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := newTestWebhook(srv.URL, 3).NotifySubmission(context.Background(), testSubmission())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestWebhook_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := newTestWebhook(srv.URL, 2).NotifySubmission(context.Background(), testSubmission())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sub-1")
	assert.Equal(t, int32(2), calls.Load())
}

func TestWebhook_DisabledIsNoop(t *testing.T) {
	w := NewWebhook(config.NotifyConfig{})
	assert.False(t, w.Enabled())
	assert.NoError(t, w.NotifySubmission(context.Background(), testSubmission()))
}

func TestNewWebhook_Defaults(t *testing.T) {
	w := NewWebhook(config.NotifyConfig{WebhookURL: "http://example.invalid"})
	assert.Equal(t, 10*time.Second, w.client.Timeout)
	assert.Equal(t, 3, w.retry.MaxAttempts)
	assert.NotNil(t, w.retry.OnRetry)
}

func TestNop(t *testing.T) {
	var n Notifier = Nop{}
	assert.False(t, n.Enabled())
	assert.NoError(t, n.NotifySubmission(context.Background(), testSubmission()))
}
