package reports

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/phpdave11/gofpdf"

	"github.com/amalasyrafInvoke/set-finalproject/internal/ledger"
	"github.com/amalasyrafInvoke/set-finalproject/internal/money"
)

const pdfMaxRows = 200

func (h *Handler) sendPDF(c *fiber.Ctx, stmt *StatementResponse) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Wallet Statement")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Period: "+stmt.From+" to "+stmt.To)
	pdf.Ln(5)
	pdf.Cell(0, 6, "Account: "+strconv.FormatInt(stmt.AccountNumber, 10))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{62, 62, 62}
	pdf.CellFormat(sumW[0], 10, "Income (RM)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Expenses (RM)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Balance (RM)", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, money.FormatWithCommas(stmt.TotalIncome), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, money.FormatWithCommas(stmt.TotalExpenses), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, money.FormatWithCommas(stmt.Balance), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	colW := []float64{26, 28, 86, 30, 16}
	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(colW[0], 8, "TYPE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[1], 8, "DATE", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[2], 8, "NAME", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[3], 8, "AMOUNT", "1", 0, "R", true, 0, "")
		pdf.CellFormat(colW[4], 8, "ID", "1", 1, "C", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
	}
	writeHeader()
	pdf.SetTextColor(30, 30, 30)

	for i, it := range stmt.Items {
		if i >= pdfMaxRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, "truncated (too many rows)", "1", 1, "C", false, 0, "")
			break
		}

		if pdf.GetY() > 270 {
			pdf.AddPage()
			writeHeader()
		}

		pdf.CellFormat(colW[0], 8, string(it.ProcessType), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 8, it.CreatedAt.UTC().Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], 8, trimTo(it.Name, 60), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 8, signedAmount(it), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[4], 8, strconv.FormatInt(it.ID, 10), "1", 1, "C", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated "+time.Now().UTC().Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "pdf build failed")
	}

	filename := "statement-" + stmt.From + "-to-" + stmt.To + ".pdf"
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

func signedAmount(t ledger.Transaction) string {
	if t.ProcessType == ledger.ProcessExpenses {
		return "-" + money.FormatWithCommas(t.Amount)
	}
	return money.FormatWithCommas(t.Amount)
}

// trimTo caps a cell value at max runes. Slicing runes, not bytes, keeps
// multi-byte names valid.
func trimTo(s string, max int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max-1]) + "..."
}
