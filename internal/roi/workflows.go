package roi

// WorkflowDefinition is an immutable catalog entry.
type WorkflowDefinition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	WorkflowParams
}

var workflowCatalog = []WorkflowDefinition{
	// Sales.
	workflow("lead-follow-up", "Lead follow-up", CategorySales, 30, 10, 2,
		"Drafting and sending first-touch and follow-up emails to new inquiries."),
	workflow("crm-data-entry", "CRM data entry", CategorySales, 25, 8, 1,
		"Copying contact and deal details from email and forms into the CRM."),
	workflow("proposal-drafting", "Proposal drafting", CategorySales, 4, 90, 20,
		"Assembling proposals and quotes from templates and past work."),
	workflow("appointment-scheduling", "Appointment scheduling", CategorySales, 20, 10, 2,
		"Coordinating meetings, reminders and reschedules with clients."),

	// Operations.
	workflow("document-intake", "Document intake", CategoryOperations, 40, 12, 3,
		"Reading incoming documents, extracting key fields and filing them."),
	workflow("invoice-processing", "Invoice processing", CategoryOperations, 30, 12, 3,
		"Matching invoices to orders, coding them and routing for approval."),
	workflow("data-reconciliation", "Data reconciliation", CategoryOperations, 10, 30, 5,
		"Cross-checking records between systems and chasing mismatches."),
	workflow("report-generation", "Report generation", CategoryOperations, 3, 90, 15,
		"Pulling numbers together into recurring status and management reports."),

	// Support.
	workflow("customer-inquiries", "Customer inquiries", CategorySupport, 50, 8, 2,
		"Answering routine questions by email, chat and web form."),
	workflow("ticket-triage", "Ticket triage", CategorySupport, 40, 5, 1,
		"Categorising, prioritising and routing support requests."),
	workflow("client-onboarding", "Client onboarding", CategorySupport, 4, 45, 10,
		"Collecting paperwork and setting up new clients across tools."),
}

func workflow(id, name string, cat Category, events, before, after float64, desc string) WorkflowDefinition {
	return WorkflowDefinition{
		ID:          id,
		Name:        name,
		Description: desc,
		Category:    cat,
		WorkflowParams: WorkflowParams{
			EventsPerWeek: events,
			MinutesBefore: before,
			MinutesAfter:  after,
		},
	}
}

var workflowIndex = func() map[string]int {
	idx := make(map[string]int, len(workflowCatalog))
	for i, w := range workflowCatalog {
		idx[w.ID] = i
	}
	return idx
}()

// Workflows returns a copy of the workflow catalog in display order.
func Workflows() []WorkflowDefinition {
	out := make([]WorkflowDefinition, len(workflowCatalog))
	copy(out, workflowCatalog)
	return out
}

// LookupWorkflow returns the catalog entry for id.
func LookupWorkflow(id string) (WorkflowDefinition, bool) {
	i, ok := workflowIndex[id]
	if !ok {
		return WorkflowDefinition{}, false
	}
	return workflowCatalog[i], true
}

// DefaultSelections returns one disabled selection per catalog workflow,
// carrying the catalog defaults.
func DefaultSelections() []WorkflowSelection {
	out := make([]WorkflowSelection, 0, len(workflowCatalog))
	for _, w := range workflowCatalog {
		out = append(out, selectionFrom(w.ID, false, w.WorkflowParams))
	}
	return out
}

func selectionFrom(id string, enabled bool, p WorkflowParams) WorkflowSelection {
	return WorkflowSelection{
		ID:            id,
		Enabled:       enabled,
		EventsPerWeek: p.EventsPerWeek,
		MinutesBefore: p.MinutesBefore,
		MinutesAfter:  p.MinutesAfter,
	}
}

// MultiplierOption is a selectable fully-loaded cost factor.
type MultiplierOption struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

var industries = []string{
	"Financial Services",
	"Healthcare",
	"Logistics & Transportation",
	"Real Estate",
	"Professional Services",
	"Retail & E-commerce",
	"Manufacturing",
	"Construction",
	"Other",
}

var loadedCostMultipliers = []MultiplierOption{
	{Value: 1.2, Label: "1.2x (lean benefits)"},
	{Value: 1.3, Label: "1.3x (typical)"},
	{Value: 1.4, Label: "1.4x (full benefits)"},
	{Value: 1.5, Label: "1.5x (high overhead)"},
}

// Industries lists the industry labels offered in the calculator form.
func Industries() []string {
	return append([]string(nil), industries...)
}

// LoadedCostMultipliers lists the fully-loaded multiplier choices.
func LoadedCostMultipliers() []MultiplierOption {
	return append([]MultiplierOption(nil), loadedCostMultipliers...)
}
