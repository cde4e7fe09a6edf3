package wallet

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/amalasyrafInvoke/set-finalproject/internal/audit"
	"github.com/amalasyrafInvoke/set-finalproject/internal/auth"
	"github.com/amalasyrafInvoke/set-finalproject/internal/ledger"
	"github.com/amalasyrafInvoke/set-finalproject/internal/money"
)

type Handler struct {
	Store ledger.Store
	Audit *audit.Logger
}

func NewHandler(store ledger.Store, auditLog *audit.Logger) *Handler {
	return &Handler{Store: store, Audit: auditLog}
}

// CreateWallet opens a wallet account for the authenticated user with a
// zero balance and a generated account number.
func (h *Handler) CreateWallet(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	ctx := userContext(c)
	acc, err := h.Store.CreateAccount(ctx, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create wallet")
	}

	h.Audit.Record(ctx, audit.Entry{UserID: userID, Action: audit.ActionWalletCreate, EntityID: acc.ID})

	return c.Status(fiber.StatusCreated).JSON(acc)
}

// FetchWallet returns the current balance of one account.
func (h *Handler) FetchWallet(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid account id")
	}

	acc, err := h.Store.GetAccount(userContext(c), id)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "account not found")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch wallet")
	}

	return c.JSON(fiber.Map{
		"account_id":      acc.ID,
		"account_number":  acc.Number,
		"balance":         acc.Balance,
		"balance_display": money.SenToRinggitString(acc.Balance),
	})
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
