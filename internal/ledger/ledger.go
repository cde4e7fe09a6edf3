package ledger

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors surfaced by the engine and both store adapters.
// Handlers map these to HTTP codes; anything else is an infrastructure
// failure and is propagated verbatim.
var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidProcessType = errors.New("invalid process type")
	ErrNameRequired       = errors.New("name is required")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrAccountNotFound    = errors.New("account not found")
	ErrSavingsNotFound    = errors.New("savings goal not found")
)

// ProcessType classifies a wallet transaction.
type ProcessType string

const (
	ProcessIncome   ProcessType = "INCOME"
	ProcessExpenses ProcessType = "EXPENSES"
)

// SavingsProcessType classifies a savings goal transaction.
type SavingsProcessType string

const (
	SavingsFund     SavingsProcessType = "FUND"
	SavingsWithdraw SavingsProcessType = "WITHDRAW"
)

// Transaction statuses. Transactions are written synchronously inside the
// same database transaction as the balance update, so they are only ever
// created in COMPLETED state.
const (
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusPending   = "PENDING"
)

// Savings goal statuses. Goals are soft-deleted, never removed.
const (
	GoalActive  = "ACTIVE"
	GoalDeleted = "DELETED"
)

// Account is a user's wallet. Balance is held in sen (minor units) and is
// never negative after a committed mutation.
type Account struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Balance   int64     `json:"balance"`
	Number    int64     `json:"account_number"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transaction is the immutable audit record of one wallet balance change.
// Amount is the positive magnitude; ProcessType carries the sign.
type Transaction struct {
	ID          int64       `json:"id"`
	AccountID   int64       `json:"account_id"`
	Name        string      `json:"name"`
	Details     *string     `json:"details,omitempty"`
	Amount      int64       `json:"amount"`
	ProcessType ProcessType `json:"process_type"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// SavingsGoal is a named sub-ledger owned by a user ("tabung").
type SavingsGoal struct {
	ID            int64      `json:"id"`
	OwnerID       string     `json:"owner_id"`
	Name          string     `json:"name"`
	Icon          *string    `json:"icon,omitempty"`
	CurrentAmount int64      `json:"current_amount"`
	TargetAmount  int64      `json:"target_amount"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SavingsTransaction is the immutable audit record of one fund/withdraw
// event on a savings goal.
type SavingsTransaction struct {
	ID          int64              `json:"id"`
	SavingsID   int64              `json:"savings_id"`
	Name        string             `json:"name"`
	Amount      int64              `json:"amount"`
	ProcessType SavingsProcessType `json:"process_type"`
	CreatedAt   time.Time          `json:"created_at"`
}

// AccountRecord describes the audit row written alongside a wallet balance
// mutation.
type AccountRecord struct {
	Name        string
	Details     *string
	Amount      int64
	ProcessType ProcessType
}

// SavingsRecord describes the audit row written alongside a savings
// current_amount mutation.
type SavingsRecord struct {
	Name        string
	Amount      int64
	ProcessType SavingsProcessType
}

// GoalUpdate carries the mutable fields of a savings goal.
type GoalUpdate struct {
	Name         string
	Icon         *string
	TargetAmount int64
	DueDate      *time.Time
}

// DayTotal is one UTC calendar day's income/expense sums for an account.
type DayTotal struct {
	Day      time.Time
	Income   int64
	Expenses int64
}

// Store is the persistence port for accounts, savings goals and their
// transaction logs. ApplyAccountTransaction and ApplySavingsTransaction are
// the only mutation paths for balances and each must run the
// read-check-write and the record insert as a single atomic unit: two
// concurrent callers on the same row must serialize, and either both the
// balance update and the record commit or neither does.
type Store interface {
	CreateAccount(ctx context.Context, ownerID string) (*Account, error)
	GetAccount(ctx context.Context, id int64) (*Account, error)
	ApplyAccountTransaction(ctx context.Context, accountID int64, delta int64, rec AccountRecord) (int64, *Transaction, error)
	ListTransactions(ctx context.Context, accountID int64) ([]Transaction, error)
	DailyTotals(ctx context.Context, accountID int64, from time.Time) ([]DayTotal, error)

	CreateSavingsGoal(ctx context.Context, ownerID string, upd GoalUpdate) (*SavingsGoal, error)
	GetSavingsGoal(ctx context.Context, id int64) (*SavingsGoal, error)
	UpdateSavingsGoal(ctx context.Context, id int64, upd GoalUpdate) (*SavingsGoal, error)
	DeleteSavingsGoal(ctx context.Context, id int64) error
	ListSavingsGoals(ctx context.Context, ownerID string) ([]SavingsGoal, error)
	ApplySavingsTransaction(ctx context.Context, savingsID int64, delta int64, rec SavingsRecord) (int64, *SavingsTransaction, error)
	ListSavingsTransactions(ctx context.Context, savingsID int64) ([]SavingsTransaction, error)
}
