package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/novique-ai/roi-cli/internal/roi"
)

var segmentsShow string

var segmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "List industry segments or show the inputs one pre-fills",
	RunE: func(_ *cobra.Command, _ []string) error {
		if segmentsShow == "" {
			formatSegments(os.Stdout, roi.Segments())
			return nil
		}
		seg, ok := roi.ParseSegment(segmentsShow)
		if !ok {
			return eris.Errorf("unknown segment %q", segmentsShow)
		}
		return writeSegmentState(os.Stdout, seg)
	},
}

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List plan tiers with value bands and fee ranges",
	Run: func(_ *cobra.Command, _ []string) {
		formatPlans(os.Stdout, roi.Plans())
	},
}

func formatSegments(out io.Writer, segs []roi.SegmentMeta) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tLABEL\tEMPLOYEES\tRATE\tWORKFLOWS")
	_, _ = fmt.Fprintln(w, "--\t-----\t---------\t----\t---------")
	for _, s := range segs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%g\t%s/hr\t%s\n",
			s.ID, s.Label, s.EmployeesImpacted, roi.FormatCurrency(s.HourlyRate), strings.Join(s.Workflows, ", "))
	}
	_ = w.Flush()
}

// writeSegmentState prints the state a segment pre-fill produces as YAML,
// ready to edit and pass to calc --input.
func writeSegmentState(out io.Writer, seg roi.Segment) error {
	base := roi.DefaultState()
	state := roi.MapSegmentToState(seg, base).Apply(base)

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(state); err != nil {
		return eris.Wrap(err, "segments: encode state")
	}
	return enc.Close()
}

func formatPlans(out io.Writer, plans []roi.PlanDefinition) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIER\tNAME\tMONTHLY VALUE\tMONTHLY FEE\tSETUP FEE")
	_, _ = fmt.Fprintln(w, "----\t----\t-------------\t-----------\t---------")
	for _, p := range plans {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, formatBand(p.MonthlyValue), formatRange(p.MonthlyFeeRange), formatRange(p.SetupFeeRange))
	}
	_ = w.Flush()
}

func formatBand(b roi.Band) string {
	if b.Max == nil {
		return roi.FormatCurrency(b.Min) + "+"
	}
	return roi.FormatCurrency(b.Min) + " - " + roi.FormatCurrency(*b.Max)
}

func formatRange(r roi.FeeRange) string {
	if r.Max <= 0 {
		return roi.FormatCurrency(r.Min) + "+"
	}
	return roi.FormatCurrency(r.Min) + " - " + roi.FormatCurrency(r.Max)
}

func init() {
	segmentsCmd.Flags().StringVar(&segmentsShow, "show", "", "segment id to print as a calc input file")
	rootCmd.AddCommand(segmentsCmd, plansCmd)
}
