package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novique-ai/roi-cli/internal/model"
	"github.com/novique-ai/roi-cli/internal/roi"
)

func TestMergePricingSettings(t *testing.T) {
	fallback := roi.PricingSettings{MonthlyValueMultiplier: 0.12, OneTimeChargeMultiplier: 2.5}
	stored := &model.PricingSettingsRecord{Settings: roi.PricingSettings{MonthlyValueMultiplier: 0.2, OneTimeChargeMultiplier: 4}}

	got, err := mergePricingSettings(nil, fallback, 0.18, 0, true, false)
	require.NoError(t, err)
	assert.Equal(t, roi.PricingSettings{MonthlyValueMultiplier: 0.18, OneTimeChargeMultiplier: 2.5}, got)

	got, err = mergePricingSettings(stored, fallback, 0, 3.5, false, true)
	require.NoError(t, err)
	assert.Equal(t, roi.PricingSettings{MonthlyValueMultiplier: 0.2, OneTimeChargeMultiplier: 3.5}, got)

	_, err = mergePricingSettings(stored, fallback, 0, 0, false, false)
	assert.Error(t, err)

	_, err = mergePricingSettings(stored, fallback, -1, 0, true, false)
	assert.ErrorContains(t, err, "monthly value multiplier must be > 0")

	_, err = mergePricingSettings(stored, fallback, 0, 0, false, true)
	assert.ErrorContains(t, err, "one-time charge multiplier must be > 0")
}

func TestFormatPricingSettings(t *testing.T) {
	var buf bytes.Buffer
	formatPricingSettings(&buf, nil, roi.PricingSettings{})
	assert.Contains(t, buf.String(), "0.15")
	assert.Contains(t, buf.String(), "config")
	assert.NotContains(t, buf.String(), "Updated")

	buf.Reset()
	rec := &model.PricingSettingsRecord{
		Settings:  roi.PricingSettings{MonthlyValueMultiplier: 0.2, OneTimeChargeMultiplier: 2},
		UpdatedAt: time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	formatPricingSettings(&buf, rec, roi.PricingSettings{})
	out := buf.String()
	assert.Contains(t, out, "0.2")
	assert.Contains(t, out, "database")
	assert.Contains(t, out, "2026-06-01T08:00:00Z")
}
