package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/novique-ai/roi-cli/internal/model"
	"github.com/novique-ai/roi-cli/internal/roi"
)

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Show or change the pricing multipliers",
}

var pricingShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective pricing settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rec, err := st.GetPricingSettings(ctx)
		if err != nil {
			return eris.Wrap(err, "pricing show")
		}
		formatPricingSettings(os.Stdout, rec, cfg.Pricing)
		return nil
	},
}

var pricingSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store new pricing multipliers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		monthly, _ := cmd.Flags().GetFloat64("monthly-value-multiplier")
		oneTime, _ := cmd.Flags().GetFloat64("one-time-charge-multiplier")

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		current, err := st.GetPricingSettings(ctx)
		if err != nil {
			return eris.Wrap(err, "pricing set")
		}
		settings, err := mergePricingSettings(current, cfg.Pricing, monthly, oneTime,
			cmd.Flags().Changed("monthly-value-multiplier"), cmd.Flags().Changed("one-time-charge-multiplier"))
		if err != nil {
			return err
		}

		rec, err := st.SetPricingSettings(ctx, settings)
		if err != nil {
			return eris.Wrap(err, "pricing set")
		}
		zap.L().Info("pricing: settings updated",
			zap.Float64("monthly_value_multiplier", rec.Settings.MonthlyValueMultiplier),
			zap.Float64("one_time_charge_multiplier", rec.Settings.OneTimeChargeMultiplier),
		)
		formatPricingSettings(os.Stdout, rec, cfg.Pricing)
		return nil
	},
}

// mergePricingSettings applies the changed flags over the effective settings.
func mergePricingSettings(current *model.PricingSettingsRecord, fallback roi.PricingSettings, monthly, oneTime float64, monthlySet, oneTimeSet bool) (roi.PricingSettings, error) {
	if !monthlySet && !oneTimeSet {
		return roi.PricingSettings{}, eris.New("pricing set: pass --monthly-value-multiplier and/or --one-time-charge-multiplier")
	}

	settings := fallback.WithDefaults()
	if current != nil {
		settings = current.Settings.WithDefaults()
	}
	if monthlySet {
		if monthly <= 0 {
			return settings, eris.New("pricing set: monthly value multiplier must be > 0")
		}
		settings.MonthlyValueMultiplier = monthly
	}
	if oneTimeSet {
		if oneTime <= 0 {
			return settings, eris.New("pricing set: one-time charge multiplier must be > 0")
		}
		settings.OneTimeChargeMultiplier = oneTime
	}
	return settings, nil
}

func formatPricingSettings(out io.Writer, rec *model.PricingSettingsRecord, fallback roi.PricingSettings) {
	settings, source, updated := fallback.WithDefaults(), "config", ""
	if rec != nil {
		settings, source = rec.Settings.WithDefaults(), "database"
		updated = rec.UpdatedAt.UTC().Format(time.RFC3339)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Monthly value multiplier:\t%g\n", settings.MonthlyValueMultiplier)
	_, _ = fmt.Fprintf(w, "One-time charge multiplier:\t%g\n", settings.OneTimeChargeMultiplier)
	_, _ = fmt.Fprintf(w, "Source:\t%s\n", source)
	if updated != "" {
		_, _ = fmt.Fprintf(w, "Updated:\t%s\n", updated)
	}
	_ = w.Flush()
}

func init() {
	pricingSetCmd.Flags().Float64("monthly-value-multiplier", 0, "share of monthly value charged as the monthly fee")
	pricingSetCmd.Flags().Float64("one-time-charge-multiplier", 0, "setup fee as a multiple of the monthly fee")
	pricingCmd.AddCommand(pricingShowCmd, pricingSetCmd)
	rootCmd.AddCommand(pricingCmd)
}
