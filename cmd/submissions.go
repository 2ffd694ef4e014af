package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/novique-ai/roi-cli/internal/export"
	"github.com/novique-ai/roi-cli/internal/model"
	"github.com/novique-ai/roi-cli/internal/roi"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Inspect calculator submissions",
}

// -- submissions list --

var submissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submissions, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		subs, err := st.ListSubmissions(ctx, submissionFilterFromFlags(cmd))
		if err != nil {
			return eris.Wrap(err, "submissions list")
		}
		if len(subs) == 0 {
			fmt.Fprintln(os.Stderr, "No submissions found.")
			return nil
		}

		formatSubmissionsList(os.Stdout, subs)
		return nil
	},
}

// -- submissions export --

var submissionsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export submissions to an XLSX workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			return eris.New("submissions export: --output is required")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		subs, err := st.ListSubmissions(ctx, submissionFilterFromFlags(cmd))
		if err != nil {
			return eris.Wrap(err, "submissions export")
		}

		f, err := os.Create(output)
		if err != nil {
			return eris.Wrapf(err, "submissions export: create %s", output)
		}
		if err := export.WriteSubmissionsXLSX(f, subs); err != nil {
			f.Close() //nolint:errcheck
			return err
		}
		if err := f.Close(); err != nil {
			return eris.Wrapf(err, "submissions export: close %s", output)
		}

		zap.L().Info("submissions: exported", zap.String("path", output), zap.Int("count", len(subs)))
		return nil
	},
}

func submissionFilterFromFlags(cmd *cobra.Command) model.SubmissionFilter {
	email, _ := cmd.Flags().GetString("email")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")
	return model.SubmissionFilter{
		Email:  email,
		Status: model.SubmissionStatus(status),
		Limit:  limit,
	}
}

func formatSubmissionsList(out io.Writer, subs []model.Submission) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tEMAIL\tSEGMENT\tBENEFIT/MO\tTIER\tFEE/MO\tSTATUS\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t-----\t-------\t----------\t----\t------\t------\t-------")

	for _, s := range subs {
		email := s.Email
		if len(email) > 30 {
			email = email[:27] + "..."
		}
		segment := string(s.Segment)
		if segment == "" {
			segment = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			truncateID(s.ID),
			email,
			segment,
			roi.FormatCurrency(s.Results.TotalBenefitPerMonth),
			s.Pricing.FinalTier,
			roi.FormatCurrency(s.Pricing.MonthlyFee),
			s.Status,
			s.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	for _, c := range []*cobra.Command{submissionsListCmd, submissionsExportCmd} {
		c.Flags().String("email", "", "filter by email")
		c.Flags().String("status", "", "filter by status (new, notified, contacted)")
	}
	submissionsListCmd.Flags().Int("limit", 50, "maximum rows")
	submissionsExportCmd.Flags().Int("limit", 10000, "maximum rows")
	submissionsExportCmd.Flags().String("output", "", "path of the .xlsx file to write")

	submissionsCmd.AddCommand(submissionsListCmd, submissionsExportCmd)
	rootCmd.AddCommand(submissionsCmd)
}
