package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/novique-ai/roi-cli/internal/intake"
	"github.com/novique-ai/roi-cli/internal/roi"
)

type catalogResponse struct {
	Workflows             []roi.WorkflowDefinition `json:"workflows"`
	Industries            []string                 `json:"industries"`
	LoadedCostMultipliers []roi.MultiplierOption   `json:"loaded_cost_multipliers"`
	Scenarios             []roi.Scenario           `json:"scenarios"`
	WeeksPerMonth         float64                  `json:"weeks_per_month"`
}

type segmentResponse struct {
	Segment roi.SegmentMeta `json:"segment"`
	State   roi.State       `json:"state"`
}

type calculateRequest struct {
	State        roi.State    `json:"state"`
	SelectedTier roi.PlanTier `json:"selected_tier,omitempty"`
}

func (h *handler) listWorkflows(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{
		Workflows:             roi.Workflows(),
		Industries:            roi.Industries(),
		LoadedCostMultipliers: roi.LoadedCostMultipliers(),
		Scenarios:             roi.Scenarios(),
		WeeksPerMonth:         roi.WeeksPerMonth,
	})
}

func (h *handler) listPlans(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, roi.Plans())
}

func (h *handler) listSegments(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, roi.Segments())
}

// getSegment returns the starting form for a segment.
func (h *handler) getSegment(w http.ResponseWriter, r *http.Request) {
	seg, ok := roi.ParseSegment(chi.URLParam(r, "segment"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown segment")
		return
	}
	meta, _ := roi.SegmentByID(seg)
	base := roi.DefaultState()
	writeJSON(w, http.StatusOK, segmentResponse{
		Segment: meta,
		State:   roi.MapSegmentToState(seg, base).Apply(base),
	})
}

func (h *handler) getPricingSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.EffectiveSettings(r.Context())
	if err != nil {
		zap.L().Error("api: pricing settings", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load pricing settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *handler) calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := intake.ResolveSelectedTier(&req.State, req.SelectedTier); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.State.Scenario != "" && !req.State.Scenario.Valid() {
		writeError(w, http.StatusBadRequest, "state.scenario: unknown scenario")
		return
	}

	quote, err := h.svc.Quote(r.Context(), req.State, "")
	if err != nil {
		zap.L().Error("api: calculate", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not calculate")
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *handler) submit(w http.ResponseWriter, r *http.Request) {
	var req intake.Request
	if !decodeBody(w, r, &req) {
		return
	}

	sub, err := h.svc.Submit(r.Context(), req)
	var verr *intake.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	case err != nil:
		zap.L().Error("api: submit", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not save submission")
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
