package roi

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxDisplayMonths is the payback beyond which the figure is shown as N/A.
const maxDisplayMonths = 100

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders whole dollars with thousands separators.
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	n := int64(math.Round(v))
	if n < 0 {
		return "-$" + printer.Sprintf("%d", -n)
	}
	return "$" + printer.Sprintf("%d", n)
}

// FormatPercent renders a whole-number percentage.
func FormatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	return printer.Sprintf("%d", int64(math.Round(v))) + "%"
}

// FormatHours renders whole hours as "N hrs".
func FormatHours(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	return printer.Sprintf("%d", int64(math.Round(v))) + " hrs"
}

// FormatMonths renders a payback period. Periods under a month are shown in
// whole weeks, never fewer than one, so an immediate payback reads "1 week".
// Unbounded or very long periods are shown as N/A.
func FormatMonths(m float64) string {
	if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 || m > maxDisplayMonths {
		return "N/A"
	}
	if m < 1 {
		weeks := int(math.Max(1, math.Round(m*WeeksPerMonth)))
		return plural(strconv.Itoa(weeks), weeks == 1, "week")
	}
	r := math.Round(m*10) / 10
	s := strings.TrimSuffix(strconv.FormatFloat(r, 'f', 1, 64), ".0")
	return plural(s, r == 1, "month")
}

func plural(n string, one bool, unit string) string {
	if one {
		return fmt.Sprintf("%s %s", n, unit)
	}
	return fmt.Sprintf("%s %ss", n, unit)
}
