package roi

import "math"

// Default pricing settings.
const (
	DefaultMonthlyValueMultiplier  = 0.15
	DefaultOneTimeChargeMultiplier = 3.0
	feeRoundingStep                = 50.0
)

// PricingSettings are the operator-tunable fee multipliers.
type PricingSettings struct {
	MonthlyValueMultiplier  float64 `json:"monthly_value_multiplier" yaml:"monthly_value_multiplier" mapstructure:"monthly_value_multiplier"`
	OneTimeChargeMultiplier float64 `json:"one_time_charge_multiplier" yaml:"one_time_charge_multiplier" mapstructure:"one_time_charge_multiplier"`
}

// DefaultPricingSettings returns the documented defaults.
func DefaultPricingSettings() PricingSettings {
	return PricingSettings{
		MonthlyValueMultiplier:  DefaultMonthlyValueMultiplier,
		OneTimeChargeMultiplier: DefaultOneTimeChargeMultiplier,
	}
}

// WithDefaults replaces unset (non-positive) multipliers with the defaults.
func (s PricingSettings) WithDefaults() PricingSettings {
	if s.MonthlyValueMultiplier <= 0 {
		s.MonthlyValueMultiplier = DefaultMonthlyValueMultiplier
	}
	if s.OneTimeChargeMultiplier <= 0 {
		s.OneTimeChargeMultiplier = DefaultOneTimeChargeMultiplier
	}
	return s
}

// DerivedPricing is the fee actually charged for a computed monthly value.
type DerivedPricing struct {
	MonthlyFee           float64  `json:"monthly_fee"`
	SetupFee             float64  `json:"setup_fee"`
	CustomerSelectedTier PlanTier `json:"customer_selected_tier,omitempty"`
	RecommendedTier      PlanTier `json:"recommended_tier"`
	FinalTier            PlanTier `json:"final_tier"`
	IsBelowRecommended   bool     `json:"is_below_recommended"`
}

// ComputeDerivedPricing picks the enforced tier and fees for
// totalMonthlyValue. The final tier is never cheaper than the recommended
// one; selected may be empty. An unknown selection counts as no selection.
func ComputeDerivedPricing(totalMonthlyValue float64, selected PlanTier, settings PricingSettings) DerivedPricing {
	settings = settings.WithDefaults()
	if selected.Rank() < 0 {
		selected = ""
	}

	recommended := RecommendTier(totalMonthlyValue)
	final := recommended
	below := false
	if selected != "" {
		if selected.Rank() >= recommended.Rank() {
			final = selected
		} else {
			below = true
		}
	}

	plan, _ := PlanByID(final)
	monthly := plan.MonthlyFeeRange.Clamp(roundToStep(totalMonthlyValue*settings.MonthlyValueMultiplier, feeRoundingStep))

	return DerivedPricing{
		MonthlyFee:           monthly,
		SetupFee:             monthly * settings.OneTimeChargeMultiplier,
		CustomerSelectedTier: selected,
		RecommendedTier:      recommended,
		FinalTier:            final,
		IsBelowRecommended:   below,
	}
}

// roundToStep rounds v to the nearest multiple of step, halves rounding up.
func roundToStep(v, step float64) float64 {
	return math.Floor(v/step+0.5) * step
}

// Quote pairs the ROI results with the derived pricing.
type Quote struct {
	Results Results        `json:"results"`
	Pricing DerivedPricing `json:"pricing"`
	// NetBenefitAtDerivedFee is total benefit minus the derived monthly fee.
	// Results.NetBenefitPerMonth keeps using the stated fee.
	NetBenefitAtDerivedFee float64 `json:"net_benefit_at_derived_fee"`
}

// Evaluate runs Calculate and ComputeDerivedPricing for state, using
// state.Novique.SelectedTier as the customer's pick.
func Evaluate(state State, settings PricingSettings) Quote {
	res := Calculate(state)
	pricing := ComputeDerivedPricing(res.TotalBenefitPerMonth, state.Novique.SelectedTier, settings)
	return Quote{
		Results:                res,
		Pricing:                pricing,
		NetBenefitAtDerivedFee: res.TotalBenefitPerMonth - pricing.MonthlyFee,
	}
}
