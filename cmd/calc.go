package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/novique-ai/roi-cli/internal/intake"
	"github.com/novique-ai/roi-cli/internal/roi"
)

var (
	calcInput    string
	calcSegment  string
	calcScenario string
	calcTier     string
	calcFormat   string
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate ROI and derived pricing for a set of inputs",
	Long: `Runs the ROI model over the calculator defaults, an optional YAML or JSON
state file, and an optional segment pre-fill (applied over the file).
Pricing uses the multipliers from config.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("calc"); err != nil {
			return err
		}

		state, err := loadState(calcInput, calcSegment, calcScenario, calcTier)
		if err != nil {
			return err
		}

		svc := intake.NewService(nil, nil, cfg.Pricing)
		quote, err := svc.Quote(cmd.Context(), state, "")
		if err != nil {
			return err
		}

		switch calcFormat {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(quote)
		case "table", "":
			formatQuote(os.Stdout, state, quote)
			return nil
		default:
			return eris.Errorf("unknown format %q (want table or json)", calcFormat)
		}
	},
}

// loadState builds the calculator state from defaults, an optional file,
// and flag overrides. Empty arguments are ignored.
func loadState(path, segment, scenario, tier string) (roi.State, error) {
	state := roi.DefaultState()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return state, eris.Wrapf(err, "calc: read %s", path)
		}
		// JSON is valid YAML, so one decoder covers both.
		if err := yaml.Unmarshal(data, &state); err != nil {
			return state, eris.Wrapf(err, "calc: parse %s", path)
		}
	}

	if segment != "" {
		seg, ok := roi.ParseSegment(segment)
		if !ok {
			return state, eris.Errorf("calc: unknown segment %q", segment)
		}
		state = roi.MapSegmentToState(seg, state).Apply(state)
	}

	if scenario != "" {
		state.Scenario = roi.Scenario(scenario)
	}
	if state.Scenario == "" {
		state.Scenario = roi.ScenarioExpected
	}
	if !state.Scenario.Valid() {
		return state, eris.Errorf("calc: unknown scenario %q", state.Scenario)
	}

	if err := intake.ResolveSelectedTier(&state, roi.PlanTier(tier)); err != nil {
		return state, eris.Wrap(err, "calc")
	}
	return state, nil
}

func formatQuote(out io.Writer, state roi.State, q roi.Quote) {
	r, p := q.Results, q.Pricing
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Scenario:\t%s\n", state.Scenario)
	_, _ = fmt.Fprintf(w, "Workflows enabled:\t%d\n", len(state.EnabledWorkflowIDs()))
	_, _ = fmt.Fprintf(w, "Hours saved / mo:\t%s\n", roi.FormatHours(r.HoursSavedPerMonth))
	_, _ = fmt.Fprintf(w, "Labor savings / mo:\t%s\n", roi.FormatCurrency(r.LaborSavingsPerMonth))
	if state.Quality.Enabled {
		_, _ = fmt.Fprintf(w, "Error savings / mo:\t%s\n", roi.FormatCurrency(r.ErrorSavingsPerMonth))
	}
	if state.Revenue.Enabled {
		_, _ = fmt.Fprintf(w, "Revenue uplift / mo:\t%s\n", roi.FormatCurrency(r.RevenueUpliftPerMonth))
	}
	_, _ = fmt.Fprintf(w, "Total benefit / mo:\t%s\n", roi.FormatCurrency(r.TotalBenefitPerMonth))
	_, _ = fmt.Fprintf(w, "Stated fee / mo:\t%s\n", roi.FormatCurrency(state.Novique.MonthlyFee))
	_, _ = fmt.Fprintf(w, "Net benefit / mo:\t%s\n", roi.FormatCurrency(r.NetBenefitPerMonth))
	_, _ = fmt.Fprintf(w, "ROI:\t%s\n", roi.FormatPercent(r.ROIPercent))
	_, _ = fmt.Fprintf(w, "Payback:\t%s\n", roi.FormatMonths(r.PaybackMonths))
	_, _ = fmt.Fprintln(w, "\t")
	_, _ = fmt.Fprintf(w, "Recommended tier:\t%s\n", p.RecommendedTier)
	if p.CustomerSelectedTier != "" {
		_, _ = fmt.Fprintf(w, "Selected tier:\t%s\n", p.CustomerSelectedTier)
	}
	_, _ = fmt.Fprintf(w, "Final tier:\t%s\n", p.FinalTier)
	_, _ = fmt.Fprintf(w, "Monthly fee:\t%s\n", roi.FormatCurrency(p.MonthlyFee))
	_, _ = fmt.Fprintf(w, "Setup fee:\t%s\n", roi.FormatCurrency(p.SetupFee))
	_, _ = fmt.Fprintf(w, "Net benefit at fee:\t%s\n", roi.FormatCurrency(q.NetBenefitAtDerivedFee))
	_ = w.Flush()

	if p.IsBelowRecommended {
		_, _ = fmt.Fprintf(out, "\nNote: %s is below the recommended tier for this value; pricing uses %s.\n",
			p.CustomerSelectedTier, p.FinalTier)
	}
}

func init() {
	calcCmd.Flags().StringVar(&calcInput, "input", "", "YAML or JSON state file")
	calcCmd.Flags().StringVar(&calcSegment, "segment", "", "pre-fill inputs for a segment (financial, healthcare, logistics, real-estate)")
	calcCmd.Flags().StringVar(&calcScenario, "scenario", "", "conservative, expected or aggressive")
	calcCmd.Flags().StringVar(&calcTier, "tier", "", "customer-selected plan tier")
	calcCmd.Flags().StringVar(&calcFormat, "format", "table", "output format: table or json")
	rootCmd.AddCommand(calcCmd)
}
