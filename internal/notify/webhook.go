// Package notify tells the sales team about new calculator submissions.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/novique-ai/roi-cli/internal/config"
	"github.com/novique-ai/roi-cli/internal/model"
	"github.com/novique-ai/roi-cli/internal/resilience"
)

// EventType identifies the kind of webhook event.
type EventType string

const EventSubmission EventType = "roi_submission"

// Event is the JSON body posted to the webhook.
type Event struct {
	Type       EventType         `json:"type"`
	Submission *model.Submission `json:"submission"`
	SentAt     time.Time         `json:"sent_at"`
}

// Notifier delivers submission events.
type Notifier interface {
	Enabled() bool
	NotifySubmission(ctx context.Context, sub *model.Submission) error
}

// Webhook posts events to a single URL. A zero URL disables delivery.
type Webhook struct {
	url    string
	client *http.Client
	retry  resilience.RetryConfig
}

// NewWebhook builds a Webhook from config.
func NewWebhook(cfg config.NotifyConfig) *Webhook {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	retry := resilience.DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}
	retry.OnRetry = resilience.RetryLogger("webhook", "notify_submission")
	return &Webhook{
		url:    cfg.WebhookURL,
		client: &http.Client{Timeout: timeout},
		retry:  retry,
	}
}

// Enabled reports whether a webhook URL is configured.
func (w *Webhook) Enabled() bool { return w.url != "" }

// NotifySubmission posts sub, retrying transient failures.
func (w *Webhook) NotifySubmission(ctx context.Context, sub *model.Submission) error {
	if !w.Enabled() {
		return nil
	}

	payload, err := json.Marshal(Event{Type: EventSubmission, Submission: sub, SentAt: time.Now().UTC()})
	if err != nil {
		return eris.Wrap(err, "notify: marshal event")
	}

	err = resilience.Do(ctx, w.retry, func(ctx context.Context) error {
		return w.post(ctx, payload)
	})
	if err != nil {
		return eris.Wrapf(err, "notify: submission %s", sub.ID)
	}
	zap.L().Info("notify: submission sent",
		zap.String("submission_id", sub.ID),
		zap.String("final_tier", string(sub.Pricing.FinalTier)),
	)
	return nil
}

func (w *Webhook) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	return resilience.StatusError("webhook", resp.StatusCode)
}

// Nop discards events.
type Nop struct{}

func (Nop) Enabled() bool { return false }

func (Nop) NotifySubmission(context.Context, *model.Submission) error { return nil }
