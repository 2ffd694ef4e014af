package roi

import (
	"strings"

	"github.com/rotisserie/eris"
)

// PlanTier identifies a commercial plan. The empty tier means "none".
type PlanTier string

const (
	TierStarter PlanTier = "starter"
	TierGrowth  PlanTier = "growth"
	TierScale   PlanTier = "scale"
)

// Rank orders tiers from cheapest (0) upward. Unknown tiers rank -1.
func (t PlanTier) Rank() int {
	for i, p := range planCatalog {
		if p.ID == t {
			return i
		}
	}
	return -1
}

// ParsePlanTier matches raw case-insensitively against the plan catalog.
func ParsePlanTier(raw string) (PlanTier, bool) {
	t := PlanTier(strings.ToLower(strings.TrimSpace(raw)))
	if t.Rank() < 0 {
		return "", false
	}
	return t, true
}

// Band is a half-open monthly value range [Min, Max). A nil Max is unbounded.
type Band struct {
	Min float64  `json:"min"`
	Max *float64 `json:"max"`
}

// Contains reports whether v falls inside the band.
func (b Band) Contains(v float64) bool {
	if v < b.Min {
		return false
	}
	return b.Max == nil || v < *b.Max
}

func (b Band) clone() Band {
	if b.Max != nil {
		b.Max = bound(*b.Max)
	}
	return b
}

// FeeRange is an inclusive fee clamp. A zero Max means no upper clamp.
type FeeRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clamp limits v to the range.
func (r FeeRange) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if r.Max > 0 && v > r.Max {
		return r.Max
	}
	return v
}

// PlanDefinition is a static plan catalog entry.
type PlanDefinition struct {
	ID              PlanTier `json:"id"`
	Name            string   `json:"name"`
	Tagline         string   `json:"tagline"`
	Description     string   `json:"description"`
	MonthlyValue    Band     `json:"monthly_value"`
	MonthlyFeeRange FeeRange `json:"monthly_fee_range"`
	SetupFeeRange   FeeRange `json:"setup_fee_range"`
	Color           string   `json:"color"`
}

func bound(v float64) *float64 { return &v }

// clone returns p with no pointers shared with the catalog.
func (p PlanDefinition) clone() PlanDefinition {
	p.MonthlyValue = p.MonthlyValue.clone()
	return p
}

// planCatalog is ordered by rank. Value bands partition [0, inf).
var planCatalog = []PlanDefinition{
	{
		ID:              TierStarter,
		Name:            "Starter",
		Tagline:         "Automate your first workflows",
		Description:     "One or two high-volume workflows automated end to end, with monthly tuning.",
		MonthlyValue:    Band{Min: 0, Max: bound(5000)},
		MonthlyFeeRange: FeeRange{Min: 500, Max: 1000},
		SetupFeeRange:   FeeRange{Min: 1500, Max: 3000},
		Color:           "emerald",
	},
	{
		ID:              TierGrowth,
		Name:            "Growth",
		Tagline:         "Scale automation across teams",
		Description:     "Multiple workflows across sales, operations and support with shared integrations.",
		MonthlyValue:    Band{Min: 5000, Max: bound(15000)},
		MonthlyFeeRange: FeeRange{Min: 1250, Max: 2500},
		SetupFeeRange:   FeeRange{Min: 3750, Max: 7500},
		Color:           "sky",
	},
	{
		ID:              TierScale,
		Name:            "Scale",
		Tagline:         "AI operations partner",
		Description:     "Organisation-wide automation program with dedicated support and quarterly roadmap reviews.",
		MonthlyValue:    Band{Min: 15000},
		MonthlyFeeRange: FeeRange{Min: 3000, Max: 5000},
		SetupFeeRange:   FeeRange{Min: 9000, Max: 15000},
		Color:           "violet",
	},
}

// Plans returns the plan catalog in rank order.
func Plans() []PlanDefinition {
	out := make([]PlanDefinition, len(planCatalog))
	for i, p := range planCatalog {
		out[i] = p.clone()
	}
	return out
}

// PlanByID returns the plan for id.
func PlanByID(id PlanTier) (PlanDefinition, bool) {
	if r := id.Rank(); r >= 0 {
		return planCatalog[r].clone(), true
	}
	return PlanDefinition{}, false
}

// RecommendTier picks the plan whose value band contains totalMonthlyValue.
// Values below the first band map to the cheapest plan.
func RecommendTier(totalMonthlyValue float64) PlanTier {
	for _, p := range planCatalog {
		if p.MonthlyValue.Contains(totalMonthlyValue) {
			return p.ID
		}
	}
	return planCatalog[0].ID
}

// checkPlanCatalog verifies that value bands tile [0, inf) without gaps and
// that fee ranges strictly increase with rank.
func checkPlanCatalog(plans []PlanDefinition) error {
	if len(plans) == 0 {
		return eris.New("plan catalog is empty")
	}
	if plans[0].MonthlyValue.Min != 0 {
		return eris.Errorf("plan %s: value band must start at 0", plans[0].ID)
	}
	for i, p := range plans {
		last := i == len(plans)-1
		switch {
		case last && p.MonthlyValue.Max != nil:
			return eris.Errorf("plan %s: top value band must be unbounded", p.ID)
		case !last && p.MonthlyValue.Max == nil:
			return eris.Errorf("plan %s: only the top value band may be unbounded", p.ID)
		case !last && *p.MonthlyValue.Max != plans[i+1].MonthlyValue.Min:
			return eris.Errorf("plan %s: value band ends at %.0f but %s starts at %.0f",
				p.ID, *p.MonthlyValue.Max, plans[i+1].ID, plans[i+1].MonthlyValue.Min)
		}
		for _, r := range []FeeRange{p.MonthlyFeeRange, p.SetupFeeRange} {
			if r.Max <= 0 || r.Min > r.Max {
				return eris.Errorf("plan %s: fee range [%.0f, %.0f] is invalid", p.ID, r.Min, r.Max)
			}
		}
		if i > 0 {
			prev := plans[i-1]
			if p.MonthlyFeeRange.Min <= prev.MonthlyFeeRange.Max {
				return eris.Errorf("plan %s: monthly fee range overlaps %s", p.ID, prev.ID)
			}
			if p.SetupFeeRange.Min <= prev.SetupFeeRange.Max {
				return eris.Errorf("plan %s: setup fee range overlaps %s", p.ID, prev.ID)
			}
		}
	}
	return nil
}
