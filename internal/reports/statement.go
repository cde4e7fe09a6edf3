package reports

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/amalasyrafInvoke/set-finalproject/internal/ledger"
)

type Handler struct {
	Store ledger.Store
}

func NewHandler(store ledger.Store) *Handler {
	return &Handler{Store: store}
}

type StatementResponse struct {
	AccountID     int64                `json:"account_id"`
	AccountNumber int64                `json:"account_number"`
	Balance       int64                `json:"balance"`
	From          string               `json:"from"`
	To            string               `json:"to"`
	TotalIncome   int64                `json:"total_income"`
	TotalExpenses int64                `json:"total_expenses"`
	Items         []ledger.Transaction `json:"items"`
}

// Statement renders an account statement for a period (default: trailing 30
// days) as JSON, or as a PDF download with ?format=pdf.
func (h *Handler) Statement(c *fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("accountId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid account id")
	}

	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))
	if from == "" || to == "" {
		end := time.Now().UTC()
		from = end.AddDate(0, 0, -29).Format("2006-01-02")
		to = end.Format("2006-01-02")
	}

	fromDay, err := time.Parse("2006-01-02", from)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
	}
	toDay, err := time.Parse("2006-01-02", to)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
	}
	if toDay.Before(fromDay) {
		return fiber.NewError(fiber.StatusBadRequest, "from must not be after to")
	}

	ctx := userContext(c)
	acc, err := h.Store.GetAccount(ctx, accountID)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "account not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch account")
	}

	txns, err := h.Store.ListTransactions(ctx, accountID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch transactions")
	}

	stmt := buildStatement(acc, fromDay, toDay, txns)
	stmt.From = from
	stmt.To = to

	if strings.EqualFold(c.Query("format"), "pdf") {
		return h.sendPDF(c, stmt)
	}
	return c.JSON(stmt)
}

// buildStatement filters the full transaction list down to the period and
// sums the two directions. The period is inclusive on both ends, by UTC
// calendar day.
func buildStatement(acc *ledger.Account, from, to time.Time, txns []ledger.Transaction) *StatementResponse {
	cutoff := to.AddDate(0, 0, 1)

	stmt := &StatementResponse{
		AccountID:     acc.ID,
		AccountNumber: acc.Number,
		Balance:       acc.Balance,
		Items:         []ledger.Transaction{},
	}
	for _, t := range txns {
		ts := t.CreatedAt.UTC()
		if ts.Before(from) || !ts.Before(cutoff) {
			continue
		}
		switch t.ProcessType {
		case ledger.ProcessIncome:
			stmt.TotalIncome += t.Amount
		case ledger.ProcessExpenses:
			stmt.TotalExpenses += t.Amount
		}
		stmt.Items = append(stmt.Items, t)
	}
	return stmt
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
