package roi

import (
	"encoding/json"
	"math"
)

// WeeksPerMonth is the fixed average used to turn weekly volumes into
// monthly ones.
const WeeksPerMonth = 4.33

// Scenario is a named confidence level applied to projected benefits.
type Scenario string

const (
	ScenarioConservative Scenario = "conservative"
	ScenarioExpected     Scenario = "expected"
	ScenarioAggressive   Scenario = "aggressive"
)

var scenarioMultipliers = map[Scenario]float64{
	ScenarioConservative: 0.6,
	ScenarioExpected:     1.0,
	ScenarioAggressive:   1.3,
}

// Scenarios lists the scenarios from least to most optimistic.
func Scenarios() []Scenario {
	return []Scenario{ScenarioConservative, ScenarioExpected, ScenarioAggressive}
}

// Multiplier returns the benefit multiplier. Unknown scenarios scale by 1.
func (s Scenario) Multiplier() float64 {
	if m, ok := scenarioMultipliers[s]; ok {
		return m
	}
	return 1.0
}

// Valid reports whether s is a known scenario.
func (s Scenario) Valid() bool {
	_, ok := scenarioMultipliers[s]
	return ok
}

// Results holds the monthly ROI figures for one State. NetBenefitPerMonth
// is measured against the stated fee in State.Novique, not the derived fee.
type Results struct {
	HoursSavedPerMonth    float64 `json:"hours_saved_per_month"`
	LaborSavingsPerMonth  float64 `json:"labor_savings_per_month"`
	ErrorSavingsPerMonth  float64 `json:"error_savings_per_month"`
	RevenueUpliftPerMonth float64 `json:"revenue_uplift_per_month"`
	TotalBenefitPerMonth  float64 `json:"total_benefit_per_month"`
	NetBenefitPerMonth    float64 `json:"net_benefit_per_month"`
	ROIPercent            float64 `json:"roi_percent"`
	// PaybackMonths is +Inf when net benefit is not positive.
	PaybackMonths float64 `json:"payback_months"`
}

// PaybackUnbounded reports whether the setup fee is never recovered.
func (r Results) PaybackUnbounded() bool {
	return math.IsInf(r.PaybackMonths, 1) || math.IsNaN(r.PaybackMonths)
}

// MarshalJSON encodes an unbounded payback as null.
func (r Results) MarshalJSON() ([]byte, error) {
	type plain Results
	out := struct {
		plain
		PaybackMonths *float64 `json:"payback_months"`
	}{plain: plain(r)}
	if !r.PaybackUnbounded() {
		p := r.PaybackMonths
		out.PaybackMonths = &p
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a null payback back as +Inf.
func (r *Results) UnmarshalJSON(data []byte) error {
	type plain Results
	in := struct {
		*plain
		PaybackMonths *float64 `json:"payback_months"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.PaybackMonths == nil {
		r.PaybackMonths = math.Inf(1)
	} else {
		r.PaybackMonths = *in.PaybackMonths
	}
	return nil
}

// Calculate runs the ROI model over state. It never fails: degenerate
// inputs yield zero savings, zero ROI and an unbounded payback.
func Calculate(state State) Results {
	mult := state.Scenario.Multiplier()

	hours := baseHoursSaved(state.Workflows) * mult * state.Company.EmployeesImpacted
	labor := hours * state.Costs.HourlyRate * state.Costs.FullyLoadedMultiplier

	var errorSavings float64
	if q := state.Quality; q.Enabled {
		errorsAvoided := monthlyEvents(state.Workflows) * q.ErrorRate * q.ErrorReduction
		errorSavings = errorsAvoided * q.CostPerError * mult
	}

	var revenue float64
	if rv := state.Revenue; rv.Enabled {
		extraDeals := rv.LeadsPerMonth * rv.ConversionRate * rv.ConversionLiftRelative
		revenue = extraDeals * rv.AvgDealValue * rv.GrossMargin * mult
	}

	total := labor + errorSavings + revenue
	net := total - state.Novique.MonthlyFee

	var roiPct float64
	if state.Novique.MonthlyFee > 0 {
		roiPct = net / state.Novique.MonthlyFee * 100
	}

	payback := math.Inf(1)
	if net > 0 {
		payback = state.Novique.OneTimeSetup / net
	}

	return Results{
		HoursSavedPerMonth:    hours,
		LaborSavingsPerMonth:  labor,
		ErrorSavingsPerMonth:  errorSavings,
		RevenueUpliftPerMonth: revenue,
		TotalBenefitPerMonth:  total,
		NetBenefitPerMonth:    net,
		ROIPercent:            roiPct,
		PaybackMonths:         payback,
	}
}

// countable reports whether a selection contributes to the sums: it must be
// enabled and reference a catalog workflow.
func countable(w WorkflowSelection) bool {
	if !w.Enabled {
		return false
	}
	_, ok := LookupWorkflow(w.ID)
	return ok
}

// baseHoursSaved is the per-employee monthly hours saved before scenario
// scaling.
func baseHoursSaved(workflows []WorkflowSelection) float64 {
	var hours float64
	for _, w := range workflows {
		if !countable(w) {
			continue
		}
		minutesSaved := math.Max(0, w.MinutesBefore-w.MinutesAfter)
		hours += w.EventsPerWeek * WeeksPerMonth * minutesSaved / 60
	}
	return hours
}

// monthlyEvents is the event volume across enabled workflows.
func monthlyEvents(workflows []WorkflowSelection) float64 {
	var events float64
	for _, w := range workflows {
		if countable(w) {
			events += w.EventsPerWeek * WeeksPerMonth
		}
	}
	return events
}
