// Package export writes stored submissions to spreadsheet form.
package export

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/novique-ai/roi-cli/internal/model"
	"github.com/novique-ai/roi-cli/internal/roi"
)

// SheetName is the worksheet written by WriteSubmissionsXLSX.
const SheetName = "Submissions"

// Header is the first row of the worksheet.
var Header = []string{
	"ID", "Created", "Email", "Segment", "Industry", "Employees", "Scenario", "Workflows",
	"Hours Saved / Mo", "Total Benefit / Mo", "Net Benefit / Mo", "ROI", "Payback",
	"Recommended Tier", "Selected Tier", "Final Tier", "Monthly Fee", "Setup Fee", "Status",
}

// WriteSubmissionsXLSX writes one row per submission, newest order preserved.
func WriteSubmissionsXLSX(w io.Writer, subs []model.Submission) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	addRow(sheet, Header)
	for i := range subs {
		addRow(sheet, submissionRow(&subs[i]))
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "xlsx: write workbook")
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, v := range cells {
		row.AddCell().SetString(v)
	}
}

func submissionRow(s *model.Submission) []string {
	r := s.Results
	return []string{
		s.ID,
		s.CreatedAt.UTC().Format(time.RFC3339),
		s.Email,
		string(s.Segment),
		s.Industry,
		strconv.FormatFloat(s.EmployeesImpacted, 'f', -1, 64),
		string(s.Scenario),
		strings.Join(s.SelectedWorkflowIDs, ", "),
		roi.FormatHours(r.HoursSavedPerMonth),
		roi.FormatCurrency(r.TotalBenefitPerMonth),
		roi.FormatCurrency(r.NetBenefitPerMonth),
		roi.FormatPercent(r.ROIPercent),
		roi.FormatMonths(r.PaybackMonths),
		string(s.Pricing.RecommendedTier),
		string(s.Pricing.CustomerSelectedTier),
		string(s.Pricing.FinalTier),
		roi.FormatCurrency(s.Pricing.MonthlyFee),
		roi.FormatCurrency(s.Pricing.SetupFee),
		string(s.Status),
	}
}
