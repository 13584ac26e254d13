package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/mmynk/quicksplit/internal/money"
)

var (
	headerColor     = [3]int{15, 118, 110}
	headerTextColor = [3]int{255, 255, 255}
	bodyTextColor   = [3]int{30, 41, 59}
	lineColor       = [3]int{203, 213, 225}
)

// WritePDF renders r as a single A4 document.
func WritePDF(w io.Writer, r Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Title bar
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 12, tr("  "+r.Title), "", 1, "L", true, 0, "")
	pdf.Ln(4)

	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.SetFont("Arial", "", 11)
	names := make([]string, len(r.People))
	for i, p := range r.People {
		names[i] = p.Name
	}
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Total Expenses: %s", r.amount(r.Total))), "", 1, "L", false, 0, "")
	pdf.MultiCell(0, 6, tr("Split between: "+strings.Join(names, ", ")), "", "L", false)
	pdf.Ln(6)

	section := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(3)
	}

	section("Expenses")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 7, "Expense", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Amount", "B", 0, "R", false, 0, "")
	pdf.CellFormat(90, 7, "Paid by", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, e := range r.Expenses {
		pdf.CellFormat(70, 6, tr(e.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, tr(r.amount(e.Amount)), "", 0, "R", false, 0, "")
		pdf.CellFormat(90, 6, tr(e.PaidBy), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	section("Who Owes Who")
	pdf.SetFont("Arial", "", 10)
	if len(r.Settlements) == 0 {
		pdf.CellFormat(0, 7, "Everyone is even! No money needs to change hands.", "", 1, "L", false, 0, "")
	}
	for _, s := range r.Settlements {
		pdf.CellFormat(140, 7, tr(fmt.Sprintf("%s owes %s", s.From, s.To)), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(50, 7, tr(r.amount(s.Amount)), "", 1, "R", false, 0, "")
		pdf.SetFont("Arial", "", 10)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

func (r Report) amount(v float64) string {
	return money.FormatWith(r.Currency, v)
}
