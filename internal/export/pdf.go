package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"partypay/internal/core"
)

// Table geometry in mm on an A4 portrait page with 20mm side margins.
const (
	colDateW     = 30.0
	colPaymentW  = 30.0
	colNextW     = 35.0
	colCommentsW = 75.0
	rowLineH     = 6.0
	pageBreakY   = 275.0
)

var whitespaceSlug = strings.NewReplacer(" ", "-", "\t", "-")

// PartyReportPDF renders a party's payment report: title, party name,
// generation timestamp, then a grid of the entries with a page footer on
// every page.
func PartyReportPDF(report core.PartyReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payment Report - "+report.PartyName, true)
	pdf.SetSubject("Party Payment Report", true)
	pdf.SetAuthor("Party Payment Manager", true)
	pdf.SetAutoPageBreak(false, 15)
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Party Payment Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetXY(20, 30)
	pdf.CellFormat(0, 8, "Party: "+report.PartyName, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(20, 38)
	generated := time.Now().Format("January 2, 2006 03:04 PM")
	pdf.CellFormat(0, 6, "Generated: "+generated, "", 1, "L", false, 0, "")

	pdf.SetXY(20, 50)
	drawTableHeader(pdf)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, e := range report.Entries {
		drawTableRow(pdf, e)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawTableHeader(pdf *fpdf.Fpdf) {
	pdf.SetX(20)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(34, 197, 94)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(colDateW, 8, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colPaymentW, 8, "Payment", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colNextW, 8, "Next Payment Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colCommentsW, 8, "Comments", "1", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetX(20)
}

func drawTableRow(pdf *fpdf.Fpdf, e core.Entry) {
	comments := dashIfEmpty(e.Comments)
	lines := pdf.SplitText(comments, colCommentsW-3)
	if len(lines) == 0 {
		lines = []string{"-"}
	}
	rowH := rowLineH * float64(len(lines))

	if pdf.GetY()+rowH > pageBreakY {
		pdf.AddPage()
		pdf.SetY(20)
		drawTableHeader(pdf)
	}

	x, y := 20.0, pdf.GetY()
	pdf.SetX(x)
	pdf.CellFormat(colDateW, rowH, reportDate(e.Date), "1", 0, "L", false, 0, "")
	pdf.CellFormat(colPaymentW, rowH, reportCurrency(e.Payment), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colNextW, rowH, reportDate(e.NextPaymentDate), "1", 0, "L", false, 0, "")

	commentsX := x + colDateW + colPaymentW + colNextW
	pdf.Rect(commentsX, y, colCommentsW, rowH, "D")
	for i, line := range lines {
		pdf.Text(commentsX+1.5, y+4.3+rowLineH*float64(i), line)
	}
	pdf.SetXY(x, y+rowH)
}

// reportDate renders a YYYY-MM-DD value as "Jan 2, 2006"; blanks and
// unparseable values fall back to a dash or the raw string.
func reportDate(s string) string {
	if s == "" {
		return "-"
	}
	t, err := core.ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2, 2006")
}

// reportCurrency formats an amount for the PDF. The built-in PDF fonts only
// cover cp1252, so the amount carries an ASCII "Rs " prefix.
func reportCurrency(s string) string {
	minor, err := core.ToMinorUnits(s)
	if err != nil {
		return "Rs 0.00"
	}
	return "Rs " + core.FromMinorUnits(minor)
}

func dashIfEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// PDFFilename builds the download name for a party report.
func PDFFilename(partyName string) string {
	slug := strings.ToLower(whitespaceSlug.Replace(strings.TrimSpace(partyName)))
	return fmt.Sprintf("payment-report-%s-%d.pdf", slug, time.Now().UnixMilli())
}
