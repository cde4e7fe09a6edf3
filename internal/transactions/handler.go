package transactions

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/amalasyrafInvoke/set-finalproject/internal/audit"
	"github.com/amalasyrafInvoke/set-finalproject/internal/auth"
	"github.com/amalasyrafInvoke/set-finalproject/internal/ledger"
)

type Handler struct {
	Engine *ledger.Engine
	Store  ledger.Store
	Audit  *audit.Logger
}

func NewHandler(engine *ledger.Engine, store ledger.Store, auditLog *audit.Logger) *Handler {
	return &Handler{Engine: engine, Store: store, Audit: auditLog}
}

type createRequest struct {
	Name        string  `json:"name"`
	Details     *string `json:"details"`
	Amount      int64   `json:"amount"`
	ProcessType string  `json:"process_type"`
}

// Create posts an INCOME or EXPENSES transaction against an account. The
// balance update and the transaction record commit together or not at all.
func (h *Handler) Create(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	accountID, err := strconv.ParseInt(c.Params("accountId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid account id")
	}

	var body createRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	ctx := userContext(c)
	result, err := h.Engine.PostAccountTransaction(ctx, ledger.AccountTransactionInput{
		AccountID:   accountID,
		Name:        body.Name,
		Details:     body.Details,
		Amount:      body.Amount,
		ProcessType: ledger.ProcessType(body.ProcessType),
	})
	if err != nil {
		return mapLedgerError(err)
	}

	h.Audit.Record(ctx, audit.Entry{
		UserID:   userID,
		Action:   audit.ActionTransactionCreate,
		EntityID: result.Transaction.ID,
		Metadata: fiber.Map{"account_id": accountID, "process_type": body.ProcessType, "amount": body.Amount},
	})

	return c.Status(fiber.StatusCreated).JSON(result)
}

// List returns every transaction of an account, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("accountId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid account id")
	}

	ctx := userContext(c)
	if _, err := h.Store.GetAccount(ctx, accountID); err != nil {
		return mapLedgerError(err)
	}

	txns, err := h.Store.ListTransactions(ctx, accountID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch transactions")
	}
	if txns == nil {
		txns = []ledger.Transaction{}
	}
	return c.JSON(txns)
}

// PastSevenDays returns the trailing 7-day income/expense rollup, one entry
// per UTC calendar day, newest first, zero-filled.
func (h *Handler) PastSevenDays(c *fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("accountId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid account id")
	}

	ctx := userContext(c)
	if _, err := h.Store.GetAccount(ctx, accountID); err != nil {
		return mapLedgerError(err)
	}

	now := time.Now()
	totals, err := h.Store.DailyTotals(ctx, accountID, ledger.RollupCutoff(now, ledger.RollupDays))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch rollup")
	}

	return c.JSON(ledger.BuildDailyRollup(now, ledger.RollupDays, totals))
}

func mapLedgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrNameRequired),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidProcessType):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, ledger.ErrSavingsNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
	}
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
