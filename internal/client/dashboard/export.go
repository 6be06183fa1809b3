package dashboard

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/phpdave11/gofpdf"

	"github.com/payscan/payscan/internal/money"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"ID", 12}, {"Transaction", 42}, {"Amount", 28}, {"Receiver", 38},
	{"Sport", 30}, {"Date", 24}, {"Status", 30},
}

// pdfText makes s printable with the built-in Helvetica font, which has no
// rupee sign and no emoji.
func pdfText(s string) string {
	s = strings.ReplaceAll(s, money.RupeeSign, "Rs. ")
	s = strings.Map(func(r rune) rune {
		if r < 0x100 || r == '—' {
			return r
		}
		if unicode.IsSpace(r) {
			return ' '
		}
		return -1
	}, s)
	return strings.TrimSpace(s)
}

// ExportPDF writes the current view as a one-table A4 report.
func ExportPDF(w io.Writer, v View, generated time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Payment Screenshots", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Payment Screenshots")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, "Generated: "+generated.Format("02 Jan 2006 15:04"))
	pdf.Ln(6)
	pdf.Cell(0, 7, tr(pdfText(fmt.Sprintf("Filters: sport=%s, status=%s, search=%s",
		selectedLabel(v.SportOptions), selectedLabel(v.StatusOptions), orDash(v.Search)))))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, tr(pdfText(fmt.Sprintf("Payments: %d   Total: %s   Completed: %d   Sports: %d",
		v.Stats.Total, v.Stats.AmountText(), v.Stats.Completed, v.Stats.SportsUsed))))
	pdf.Ln(10)

	if v.Empty {
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 8, EmptyStateText)
		return pdf.Output(w)
	}

	pdf.SetFont("Helvetica", "B", 10)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range v.Rows {
		cells := []string{fmt.Sprint(r.ID), r.TransactionID, r.Amount, r.Receiver, r.Sport, r.Date, r.Status}
		for i, c := range pdfColumns {
			pdf.CellFormat(c.width, 7, tr(pdfText(cells[i])), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(7)
	}

	return pdf.Output(w)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
