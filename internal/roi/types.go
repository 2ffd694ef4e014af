// Package roi implements the ROI estimation and tiered-pricing engine used by
// the calculator. Every function in this package is pure: it reads only the
// static catalogs declared here and the values passed in.
package roi

// Category groups workflows in the catalog.
type Category string

const (
	CategorySales      Category = "sales"
	CategoryOperations Category = "operations"
	CategorySupport    Category = "support"
)

// WorkflowParams are the three time-savings inputs of a workflow.
type WorkflowParams struct {
	EventsPerWeek float64 `json:"events_per_week" yaml:"events_per_week"`
	MinutesBefore float64 `json:"minutes_before" yaml:"minutes_before"`
	MinutesAfter  float64 `json:"minutes_after" yaml:"minutes_after"`
}

// WorkflowSelection is a caller-owned copy of a catalog workflow with an
// enabled flag and possibly overridden parameters.
type WorkflowSelection struct {
	ID            string  `json:"id" yaml:"id"`
	Enabled       bool    `json:"enabled" yaml:"enabled"`
	EventsPerWeek float64 `json:"events_per_week" yaml:"events_per_week"`
	MinutesBefore float64 `json:"minutes_before" yaml:"minutes_before"`
	MinutesAfter  float64 `json:"minutes_after" yaml:"minutes_after"`
}

// CompanyInfo describes the prospect.
type CompanyInfo struct {
	EmployeesImpacted float64 `json:"employees_impacted" yaml:"employees_impacted"`
	Industry          string  `json:"industry" yaml:"industry"`
}

// CostInputs holds labor cost assumptions.
type CostInputs struct {
	HourlyRate            float64 `json:"hourly_rate" yaml:"hourly_rate"`
	FullyLoadedMultiplier float64 `json:"fully_loaded_multiplier" yaml:"fully_loaded_multiplier"`
}

// QualityInputs drives the optional error-savings term.
type QualityInputs struct {
	Enabled        bool    `json:"enabled" yaml:"enabled"`
	ErrorRate      float64 `json:"error_rate" yaml:"error_rate"`           // fraction of events producing an error
	CostPerError   float64 `json:"cost_per_error" yaml:"cost_per_error"`   // dollars
	ErrorReduction float64 `json:"error_reduction" yaml:"error_reduction"` // fraction avoided after automation
}

// RevenueInputs drives the optional revenue-uplift term.
type RevenueInputs struct {
	Enabled                bool    `json:"enabled" yaml:"enabled"`
	LeadsPerMonth          float64 `json:"leads_per_month" yaml:"leads_per_month"`
	ConversionRate         float64 `json:"conversion_rate" yaml:"conversion_rate"`
	ConversionLiftRelative float64 `json:"conversion_lift_relative" yaml:"conversion_lift_relative"`
	AvgDealValue           float64 `json:"avg_deal_value" yaml:"avg_deal_value"`
	GrossMargin            float64 `json:"gross_margin" yaml:"gross_margin"`
}

// CommercialTerms are the vendor's stated fees and the customer's tier pick.
// SelectedTier is empty when the customer has not chosen a plan.
type CommercialTerms struct {
	MonthlyFee   float64  `json:"monthly_fee" yaml:"monthly_fee"`
	OneTimeSetup float64  `json:"one_time_setup" yaml:"one_time_setup"`
	SelectedTier PlanTier `json:"selected_tier,omitempty" yaml:"selected_tier,omitempty"`
}

// State is the engine's sole input. The engine never mutates it.
type State struct {
	Company   CompanyInfo         `json:"company" yaml:"company"`
	Costs     CostInputs          `json:"costs" yaml:"costs"`
	Workflows []WorkflowSelection `json:"workflows" yaml:"workflows"`
	Quality   QualityInputs       `json:"quality" yaml:"quality"`
	Revenue   RevenueInputs       `json:"revenue" yaml:"revenue"`
	Novique   CommercialTerms     `json:"novique" yaml:"novique"`
	Scenario  Scenario            `json:"scenario" yaml:"scenario"`
}

// EnabledWorkflowIDs returns the ids of enabled selections in input order.
func (s State) EnabledWorkflowIDs() []string {
	var ids []string
	for _, w := range s.Workflows {
		if w.Enabled {
			ids = append(ids, w.ID)
		}
	}
	return ids
}

// DefaultState returns the calculator's starting form: every catalog workflow
// present but disabled, optional modifiers off, expected scenario.
func DefaultState() State {
	return State{
		Company:   CompanyInfo{EmployeesImpacted: 5, Industry: "Professional Services"},
		Costs:     CostInputs{HourlyRate: 50, FullyLoadedMultiplier: 1.3},
		Workflows: DefaultSelections(),
		Quality: QualityInputs{
			ErrorRate:      0.05,
			CostPerError:   25,
			ErrorReduction: 0.5,
		},
		Revenue: RevenueInputs{
			LeadsPerMonth:          100,
			ConversionRate:         0.10,
			ConversionLiftRelative: 0.20,
			AvgDealValue:           5000,
			GrossMargin:            0.40,
		},
		Novique:  CommercialTerms{MonthlyFee: 1500, OneTimeSetup: 4500},
		Scenario: ScenarioExpected,
	}
}
