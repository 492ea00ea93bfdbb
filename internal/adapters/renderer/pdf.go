package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	"github.com/SscSPs/carbon_accounting_app/internal/utils/carbon"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

const (
	pageMargin  = 15.0
	labelWidth  = 80.0
	valueWidth  = 100.0
	rowHeight   = 8.0
	dateLayout  = "Jan 2, 2006"
	stampLayout = "Jan 2, 2006 15:04 MST"
)

var standardNames = map[domain.AccountingStandard]string{
	domain.StandardGHGProtocol:         "GHG Protocol",
	domain.StandardISO14064:            "ISO 14064",
	domain.StandardPAS2060:             "PAS 2060",
	domain.StandardTCFD:                "TCFD",
	domain.StandardCDP:                 "CDP",
	domain.StandardScienceBasedTargets: "Science Based Targets",
}

// BuildPDF lays out a sustainability report as an A4 PDF.
func BuildPDF(report domain.SustainabilityReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetTitle(report.Name, false)
	pdf.SetAuthor(report.GeneratedBy, false)
	pdf.SetCreator("carbon_accounting_app", false)
	pdf.SetCreationDate(report.GeneratedAt)
	pdf.SetModificationDate(report.GeneratedAt)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 10, report.Name, "", "L", false)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s to %s", report.Period.StartDate.Format(dateLayout), report.Period.EndDate.Format(dateLayout)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated "+report.GeneratedAt.UTC().Format(stampLayout), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	section(pdf, "Scope")
	row(pdf, "Organization", report.OrganizationID)
	if report.DepartmentID != "" {
		row(pdf, "Department", report.DepartmentID)
	}
	if report.ProjectID != "" {
		row(pdf, "Project", report.ProjectID)
	}

	section(pdf, "Emissions")
	row(pdf, "Total emissions", FormatKg(report.TotalCarbonInKg))
	row(pdf, "Offset", FormatKg(report.OffsetCarbonInKg))
	row(pdf, "Remaining", FormatKg(report.RemainingCarbonInKg))
	row(pdf, "Offset percentage", FormatPercent(report.OffsetPercentage))
	if report.ReductionFromPreviousPeriod != nil {
		row(pdf, "Reduction from previous period", FormatKg(*report.ReductionFromPreviousPeriod))
	}
	if report.ReductionPercentage != nil {
		row(pdf, "Reduction percentage", FormatPercent(*report.ReductionPercentage))
	}

	if eq := carbon.Equivalencies(report.TotalCarbonInKg); len(eq) > 0 {
		section(pdf, "Equivalent to")
		for _, e := range eq {
			row(pdf, FormatNumber(e.Value, int(-e.Value.Exponent())), e.Label)
		}
	}

	if len(report.Standards) > 0 {
		section(pdf, "Standards")
		for _, std := range report.Standards {
			status := "Not compliant"
			if std.Compliant {
				status = "Compliant"
			}
			row(pdf, standardName(std.Name), status)
			if std.Details != "" && std.Details != status {
				pdf.SetFont("Helvetica", "I", 9)
				pdf.SetX(pageMargin + labelWidth)
				pdf.MultiCell(valueWidth, 5, std.Details, "", "L", false)
				pdf.SetFont("Helvetica", "", 11)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetFillColor(230, 242, 230)
	pdf.CellFormat(0, 9, title, "", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}

func row(pdf *fpdf.Fpdf, label, value string) {
	pdf.CellFormat(labelWidth, rowHeight, label, "B", 0, "L", false, 0, "")
	pdf.CellFormat(valueWidth, rowHeight, value, "B", 1, "L", false, 0, "")
}

func standardName(s domain.AccountingStandard) string {
	if name, ok := standardNames[s]; ok {
		return name
	}
	return string(s)
}

// FormatKg renders a carbon mass with thousands separators and two decimals, e.g. "1,234.50 kg CO2e".
func FormatKg(kg decimal.Decimal) string {
	return FormatNumber(kg, 2) + " kg CO2e"
}

// FormatPercent renders a percentage with two decimals.
func FormatPercent(pct decimal.Decimal) string {
	return FormatNumber(pct, 2) + "%"
}

// FormatNumber rounds d to places and groups the integer part in thousands.
func FormatNumber(d decimal.Decimal, places int) string {
	if places < 0 {
		places = 0
	}
	fixed := d.Abs().StringFixed(int32(places))
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	whole, err := decimal.NewFromString(intPart)
	if err != nil {
		return d.StringFixed(int32(places))
	}
	out := printer.Sprintf("%d", whole.IntPart())
	if fracPart != "" {
		out += "." + fracPart
	}
	if d.IsNegative() && strings.Trim(fixed, "0.") != "" {
		out = "-" + out
	}
	return out
}
