package savings

import (
	"context"
	"errors"
	"strconv"
	"strings"
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

type goalRequest struct {
	Name         string  `json:"name"`
	Icon         *string `json:"icon"`
	TargetAmount int64   `json:"target_amount"`
	DueDate      *string `json:"due_date"`
}

func (r *goalRequest) toUpdate() (ledger.GoalUpdate, error) {
	upd := ledger.GoalUpdate{
		Name:         strings.TrimSpace(r.Name),
		Icon:         r.Icon,
		TargetAmount: r.TargetAmount,
	}
	if upd.Name == "" {
		return upd, errors.New("name is required")
	}
	if upd.TargetAmount <= 0 {
		return upd, errors.New("target_amount must be greater than zero")
	}
	if r.DueDate != nil && *r.DueDate != "" {
		due, err := time.Parse("2006-01-02", *r.DueDate)
		if err != nil {
			return upd, errors.New("due_date must be YYYY-MM-DD")
		}
		upd.DueDate = &due
	}
	return upd, nil
}

// Create opens a new savings goal for the authenticated user.
func (h *Handler) Create(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body goalRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	upd, err := body.toUpdate()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx := userContext(c)
	goal, err := h.Store.CreateSavingsGoal(ctx, userID, upd)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create savings goal")
	}

	h.Audit.Record(ctx, audit.Entry{UserID: userID, Action: audit.ActionSavingsCreate, EntityID: goal.ID})

	return c.Status(fiber.StatusCreated).JSON(goal)
}

// Update replaces the mutable fields of an active goal.
func (h *Handler) Update(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.ParseInt(c.Params("savingsId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid savings id")
	}

	var body goalRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	upd, err := body.toUpdate()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx := userContext(c)
	goal, err := h.Store.UpdateSavingsGoal(ctx, id, upd)
	if err != nil {
		return mapLedgerError(err)
	}

	h.Audit.Record(ctx, audit.Entry{UserID: userID, Action: audit.ActionSavingsUpdate, EntityID: goal.ID})

	return c.JSON(goal)
}

// Delete soft-deletes a goal. Its transaction log stays intact.
func (h *Handler) Delete(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.ParseInt(c.Params("savingsId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid savings id")
	}

	ctx := userContext(c)
	if err := h.Store.DeleteSavingsGoal(ctx, id); err != nil {
		return mapLedgerError(err)
	}

	h.Audit.Record(ctx, audit.Entry{UserID: userID, Action: audit.ActionSavingsDelete, EntityID: id})

	return c.JSON(fiber.Map{"message": "savings goal deleted"})
}

// List returns the authenticated user's active goals, newest first.
func (h *Handler) List(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	goals, err := h.Store.ListSavingsGoals(userContext(c), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch savings goals")
	}
	if goals == nil {
		goals = []ledger.SavingsGoal{}
	}
	return c.JSON(goals)
}

// Get returns a single goal by id, deleted ones included so old references
// still resolve.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid savings id")
	}

	goal, err := h.Store.GetSavingsGoal(userContext(c), id)
	if err != nil {
		return mapLedgerError(err)
	}
	return c.JSON(goal)
}

type savingsTxRequest struct {
	Name        string `json:"name"`
	Amount      int64  `json:"amount"`
	ProcessType string `json:"process_type"`
}

// CreateTransaction funds or withdraws against a goal's current amount.
func (h *Handler) CreateTransaction(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	savingsID, err := strconv.ParseInt(c.Params("savingsId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid savings id")
	}

	var body savingsTxRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	ctx := userContext(c)
	result, err := h.Engine.PostSavingsTransaction(ctx, ledger.SavingsTransactionInput{
		SavingsID:   savingsID,
		Name:        body.Name,
		Amount:      body.Amount,
		ProcessType: ledger.SavingsProcessType(body.ProcessType),
	})
	if err != nil {
		return mapLedgerError(err)
	}

	h.Audit.Record(ctx, audit.Entry{
		UserID:   userID,
		Action:   audit.ActionSavingsTransaction,
		EntityID: result.Transaction.ID,
		Metadata: fiber.Map{"savings_id": savingsID, "process_type": body.ProcessType, "amount": body.Amount},
	})

	return c.Status(fiber.StatusCreated).JSON(result)
}

// ListTransactions returns a goal's fund/withdraw log, newest first.
func (h *Handler) ListTransactions(c *fiber.Ctx) error {
	savingsID, err := strconv.ParseInt(c.Params("savingsId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid savings id")
	}

	ctx := userContext(c)
	if _, err := h.Store.GetSavingsGoal(ctx, savingsID); err != nil {
		return mapLedgerError(err)
	}

	txns, err := h.Store.ListSavingsTransactions(ctx, savingsID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch savings transactions")
	}
	if txns == nil {
		txns = []ledger.SavingsTransaction{}
	}
	return c.JSON(txns)
}

func mapLedgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrNameRequired),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidProcessType):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrSavingsNotFound):
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
