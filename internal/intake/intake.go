// Package intake accepts calculator submissions: it re-runs the engine on
// the posted state, stores the result and notifies sales.
package intake

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/novique-ai/roi-cli/internal/model"
	"github.com/novique-ai/roi-cli/internal/notify"
	"github.com/novique-ai/roi-cli/internal/roi"
	"github.com/novique-ai/roi-cli/internal/store"
)

// Request is a prospect's submission. Results are never taken from the
// client; only the inputs are.
type Request struct {
	Email        string       `json:"email"`
	Segment      roi.Segment  `json:"segment,omitempty"`
	State        roi.State    `json:"state"`
	SelectedTier roi.PlanTier `json:"selected_tier,omitempty"`
}

// ValidationError reports a bad request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Service runs submissions and resolves pricing settings.
type Service struct {
	store    store.Store
	notifier notify.Notifier
	fallback roi.PricingSettings
}

// NewService creates a Service. st may be nil, in which case only the
// fallback settings are used and Submit fails. A nil notifier disables
// notification.
func NewService(st store.Store, n notify.Notifier, fallback roi.PricingSettings) *Service {
	if n == nil {
		n = notify.Nop{}
	}
	return &Service{store: st, notifier: n, fallback: fallback}
}

// EffectiveSettings returns the stored pricing settings when present, else
// the configured fallback. Unset multipliers take the engine defaults.
func (s *Service) EffectiveSettings(ctx context.Context) (roi.PricingSettings, error) {
	if s.store == nil {
		return s.fallback.WithDefaults(), nil
	}
	rec, err := s.store.GetPricingSettings(ctx)
	if err != nil {
		return roi.PricingSettings{}, eris.Wrap(err, "intake: load pricing settings")
	}
	if rec == nil {
		return s.fallback.WithDefaults(), nil
	}
	return rec.Settings.WithDefaults(), nil
}

// Quote evaluates state with the effective settings. A non-empty tier
// replaces the tier carried in state.
func (s *Service) Quote(ctx context.Context, state roi.State, tier roi.PlanTier) (roi.Quote, error) {
	settings, err := s.EffectiveSettings(ctx)
	if err != nil {
		return roi.Quote{}, err
	}
	if tier != "" {
		state.Novique.SelectedTier = tier
	}
	return roi.Evaluate(state, settings), nil
}

// Submit validates req, recomputes the quote, persists it and notifies.
// Notification failures are logged and do not fail the submission.
func (s *Service) Submit(ctx context.Context, req Request) (*model.Submission, error) {
	if s.store == nil {
		return nil, eris.New("intake: no store configured")
	}
	email, err := normalizeRequest(&req)
	if err != nil {
		return nil, err
	}

	quote, err := s.Quote(ctx, req.State, req.SelectedTier)
	if err != nil {
		return nil, err
	}

	industry := req.State.Company.Industry
	if meta, ok := roi.SegmentByID(req.Segment); ok && industry == "" {
		industry = meta.Industry
	}

	sub := &model.Submission{
		Email:               email,
		Segment:             req.Segment,
		Industry:            industry,
		EmployeesImpacted:   req.State.Company.EmployeesImpacted,
		SelectedWorkflowIDs: req.State.EnabledWorkflowIDs(),
		Scenario:            req.State.Scenario,
		Results:             quote.Results,
		Pricing:             quote.Pricing,
	}
	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		return nil, eris.Wrap(err, "intake: store submission")
	}
	zap.L().Info("intake: submission stored",
		zap.String("submission_id", sub.ID),
		zap.String("segment", string(sub.Segment)),
		zap.String("final_tier", string(sub.Pricing.FinalTier)),
	)

	if !s.notifier.Enabled() {
		return sub, nil
	}
	if err := s.notifier.NotifySubmission(ctx, sub); err != nil {
		zap.L().Error("intake: notify failed", zap.String("submission_id", sub.ID), zap.Error(err))
		return sub, nil
	}
	if err := s.store.UpdateSubmissionStatus(ctx, sub.ID, model.SubmissionStatusNotified); err != nil {
		zap.L().Warn("intake: mark notified failed", zap.String("submission_id", sub.ID), zap.Error(err))
		return sub, nil
	}
	sub.Status = model.SubmissionStatusNotified
	return sub, nil
}

// ResolveSelectedTier folds an explicit tier into state and normalizes
// whichever tier ends up selected. tier, when set, replaces the one carried
// in state.Novique. Unknown tiers are a ValidationError rather than being
// dropped as "no selection".
func ResolveSelectedTier(state *roi.State, tier roi.PlanTier) error {
	field := "state.novique.selected_tier"
	if tier != "" {
		state.Novique.SelectedTier = tier
		field = "selected_tier"
	}
	if state.Novique.SelectedTier == "" {
		return nil
	}
	t, ok := roi.ParsePlanTier(string(state.Novique.SelectedTier))
	if !ok {
		return &ValidationError{Field: field, Message: fmt.Sprintf("unknown tier %q", state.Novique.SelectedTier)}
	}
	state.Novique.SelectedTier = t
	return nil
}

// normalizeRequest validates req in place and returns the bare address.
func normalizeRequest(req *Request) (string, error) {
	raw := strings.TrimSpace(req.Email)
	if raw == "" {
		return "", &ValidationError{Field: "email", Message: "is required"}
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", &ValidationError{Field: "email", Message: "is not a valid address"}
	}

	if req.Segment != "" {
		seg, ok := roi.ParseSegment(string(req.Segment))
		if !ok {
			return "", &ValidationError{Field: "segment", Message: fmt.Sprintf("unknown segment %q", req.Segment)}
		}
		req.Segment = seg
	}

	if err := ResolveSelectedTier(&req.State, req.SelectedTier); err != nil {
		return "", err
	}
	req.SelectedTier = req.State.Novique.SelectedTier

	switch {
	case req.State.Scenario == "":
		req.State.Scenario = roi.ScenarioExpected
	case !req.State.Scenario.Valid():
		return "", &ValidationError{Field: "state.scenario", Message: fmt.Sprintf("unknown scenario %q", req.State.Scenario)}
	}

	if req.State.Company.EmployeesImpacted < 0 {
		return "", &ValidationError{Field: "state.company.employees_impacted", Message: "must not be negative"}
	}
	return strings.ToLower(addr.Address), nil
}
