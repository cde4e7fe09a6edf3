package ledger

import (
	"context"
	"strings"
)

// Engine combines a balance mutation and its audit record into one logical
// operation. All validation happens here so the store adapters only ever see
// well-formed deltas.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

type AccountTransactionInput struct {
	AccountID   int64
	Name        string
	Details     *string
	Amount      int64
	ProcessType ProcessType
}

type AccountTransactionResult struct {
	Balance     int64        `json:"balance"`
	Transaction *Transaction `json:"transaction"`
}

type SavingsTransactionInput struct {
	SavingsID   int64
	Name        string
	Amount      int64
	ProcessType SavingsProcessType
}

type SavingsTransactionResult struct {
	CurrentAmount int64               `json:"current_amount"`
	Transaction   *SavingsTransaction `json:"transaction"`
}

// PostAccountTransaction applies an INCOME or EXPENSES transaction to a
// wallet account. On ErrInsufficientFunds nothing is written: the balance is
// untouched and no record exists.
func (e *Engine) PostAccountTransaction(ctx context.Context, in AccountTransactionInput) (*AccountTransactionResult, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var delta int64
	switch in.ProcessType {
	case ProcessIncome:
		delta = in.Amount
	case ProcessExpenses:
		delta = -in.Amount
	default:
		return nil, ErrInvalidProcessType
	}

	rec := AccountRecord{
		Name:        strings.TrimSpace(in.Name),
		Details:     in.Details,
		Amount:      in.Amount,
		ProcessType: in.ProcessType,
	}

	balance, txn, err := e.store.ApplyAccountTransaction(ctx, in.AccountID, delta, rec)
	if err != nil {
		return nil, err
	}

	return &AccountTransactionResult{Balance: balance, Transaction: txn}, nil
}

// PostSavingsTransaction applies a FUND or WITHDRAW transaction to a savings
// goal's current amount. Deleted goals are reported as not found.
func (e *Engine) PostSavingsTransaction(ctx context.Context, in SavingsTransactionInput) (*SavingsTransactionResult, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var delta int64
	switch in.ProcessType {
	case SavingsFund:
		delta = in.Amount
	case SavingsWithdraw:
		delta = -in.Amount
	default:
		return nil, ErrInvalidProcessType
	}

	rec := SavingsRecord{
		Name:        strings.TrimSpace(in.Name),
		Amount:      in.Amount,
		ProcessType: in.ProcessType,
	}

	amount, txn, err := e.store.ApplySavingsTransaction(ctx, in.SavingsID, delta, rec)
	if err != nil {
		return nil, err
	}

	return &SavingsTransactionResult{CurrentAmount: amount, Transaction: txn}, nil
}
