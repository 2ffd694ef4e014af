package roi

import (
	"maps"
	"slices"
	"strings"
)

// Segment is an industry vertical used only to pre-fill calculator inputs.
type Segment string

const (
	SegmentFinancial  Segment = "financial"
	SegmentHealthcare Segment = "healthcare"
	SegmentLogistics  Segment = "logistics"
	SegmentRealEstate Segment = "real-estate"
)

// SegmentMeta describes the defaults a segment applies.
type SegmentMeta struct {
	ID                Segment                   `json:"id"`
	Label             string                    `json:"label"`
	Industry          string                    `json:"industry"`
	EmployeesImpacted float64                   `json:"employees_impacted"`
	HourlyRate        float64                   `json:"hourly_rate"`
	Workflows         []string                  `json:"workflows"`
	Overrides         map[string]WorkflowParams `json:"overrides,omitempty"`
}

func (m SegmentMeta) clone() SegmentMeta {
	m.Workflows = slices.Clone(m.Workflows)
	m.Overrides = maps.Clone(m.Overrides)
	return m
}

var segmentCatalog = []SegmentMeta{
	{
		ID:                SegmentFinancial,
		Label:             "Financial services",
		Industry:          "Financial Services",
		EmployeesImpacted: 8,
		HourlyRate:        65,
		Workflows:         []string{"document-intake", "data-reconciliation", "report-generation", "client-onboarding", "crm-data-entry"},
		Overrides: map[string]WorkflowParams{
			"document-intake":     {EventsPerWeek: 60, MinutesBefore: 15, MinutesAfter: 3},
			"data-reconciliation": {EventsPerWeek: 20, MinutesBefore: 30, MinutesAfter: 5},
			"report-generation":   {EventsPerWeek: 5, MinutesBefore: 120, MinutesAfter: 20},
		},
	},
	{
		ID:                SegmentHealthcare,
		Label:             "Healthcare practices",
		Industry:          "Healthcare",
		EmployeesImpacted: 12,
		HourlyRate:        42,
		Workflows:         []string{"appointment-scheduling", "document-intake", "customer-inquiries", "invoice-processing"},
		Overrides: map[string]WorkflowParams{
			"appointment-scheduling": {EventsPerWeek: 80, MinutesBefore: 6, MinutesAfter: 1},
			"customer-inquiries":     {EventsPerWeek: 70, MinutesBefore: 6, MinutesAfter: 2},
			"invoice-processing":     {EventsPerWeek: 45, MinutesBefore: 10, MinutesAfter: 3},
		},
	},
	{
		ID:                SegmentLogistics,
		Label:             "Logistics & transportation",
		Industry:          "Logistics & Transportation",
		EmployeesImpacted: 15,
		HourlyRate:        38,
		Workflows:         []string{"invoice-processing", "data-reconciliation", "customer-inquiries", "ticket-triage", "report-generation"},
		Overrides: map[string]WorkflowParams{
			"invoice-processing":  {EventsPerWeek: 80, MinutesBefore: 10, MinutesAfter: 2},
			"data-reconciliation": {EventsPerWeek: 25, MinutesBefore: 25, MinutesAfter: 5},
			"ticket-triage":       {EventsPerWeek: 60, MinutesBefore: 5, MinutesAfter: 1},
		},
	},
	{
		ID:                SegmentRealEstate,
		Label:             "Real estate",
		Industry:          "Real Estate",
		EmployeesImpacted: 6,
		HourlyRate:        55,
		Workflows:         []string{"lead-follow-up", "appointment-scheduling", "crm-data-entry", "document-intake"},
		Overrides: map[string]WorkflowParams{
			"lead-follow-up":  {EventsPerWeek: 50, MinutesBefore: 12, MinutesAfter: 2},
			"document-intake": {EventsPerWeek: 20, MinutesBefore: 20, MinutesAfter: 5},
		},
	},
}

// Segments returns the segment catalog.
func Segments() []SegmentMeta {
	out := make([]SegmentMeta, len(segmentCatalog))
	for i, m := range segmentCatalog {
		out[i] = m.clone()
	}
	return out
}

// SegmentByID returns the catalog entry for s.
func SegmentByID(s Segment) (SegmentMeta, bool) {
	for _, m := range segmentCatalog {
		if m.ID == s {
			return m.clone(), true
		}
	}
	return SegmentMeta{}, false
}

// ParseSegment matches raw case-insensitively against the known segments.
// A false return means no segment was selected, not a failure.
func ParseSegment(raw string) (Segment, bool) {
	want := strings.ToLower(strings.TrimSpace(raw))
	if want == "" {
		return "", false
	}
	for _, m := range segmentCatalog {
		if string(m.ID) == want {
			return m.ID, true
		}
	}
	return "", false
}

// StatePatch is the subset of State a segment owns.
type StatePatch struct {
	Company   CompanyInfo         `json:"company"`
	Costs     CostInputs          `json:"costs"`
	Workflows []WorkflowSelection `json:"workflows"`
}

// Apply returns s with the patched fields replaced.
func (p StatePatch) Apply(s State) State {
	s.Company = p.Company
	s.Costs = p.Costs
	s.Workflows = append([]WorkflowSelection(nil), p.Workflows...)
	return s
}

// MapSegmentToState builds the pre-filled company, cost and workflow inputs
// for segment. The workflow list always covers the full catalog. Fields the
// segment does not own are carried over from current.
func MapSegmentToState(segment Segment, current State) StatePatch {
	meta, ok := SegmentByID(segment)
	if !ok {
		return StatePatch{
			Company:   current.Company,
			Costs:     current.Costs,
			Workflows: DefaultSelections(),
		}
	}

	enabled := make(map[string]bool, len(meta.Workflows))
	for _, id := range meta.Workflows {
		enabled[id] = true
	}

	workflows := make([]WorkflowSelection, 0, len(workflowCatalog))
	for _, w := range workflowCatalog {
		params := w.WorkflowParams
		if o, ok := meta.Overrides[w.ID]; ok {
			params = o
		}
		workflows = append(workflows, selectionFrom(w.ID, enabled[w.ID], params))
	}

	costs := current.Costs
	costs.HourlyRate = meta.HourlyRate

	return StatePatch{
		Company: CompanyInfo{
			EmployeesImpacted: meta.EmployeesImpacted,
			Industry:          meta.Industry,
		},
		Costs:     costs,
		Workflows: workflows,
	}
}
