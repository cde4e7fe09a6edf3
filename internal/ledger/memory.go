package ledger

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs the engine tests
// and doubles as a storage mode for local development without Postgres. The
// single lock gives the same per-row serialization the Postgres adapter gets
// from row locks.
type MemoryStore struct {
	mu sync.RWMutex

	accounts     map[int64]*Account
	transactions map[int64][]Transaction
	goals        map[int64]*SavingsGoal
	savingsTxns  map[int64][]SavingsTransaction
	usedNumbers  map[int64]bool

	nextAccountID int64
	nextTxnID     int64
	nextGoalID    int64
	nextSavingsID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:     make(map[int64]*Account),
		transactions: make(map[int64][]Transaction),
		goals:        make(map[int64]*SavingsGoal),
		savingsTxns:  make(map[int64][]SavingsTransaction),
		usedNumbers:  make(map[int64]bool),
	}
}

func (m *MemoryStore) CreateAccount(ctx context.Context, ownerID string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	number := randomAccountNumber()
	for m.usedNumbers[number] {
		number = randomAccountNumber()
	}
	m.usedNumbers[number] = true

	m.nextAccountID++
	now := time.Now().UTC()
	acc := &Account{
		ID:        m.nextAccountID,
		OwnerID:   ownerID,
		Balance:   0,
		Number:    number,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.accounts[acc.ID] = acc

	out := *acc
	return &out, nil
}

func (m *MemoryStore) GetAccount(ctx context.Context, id int64) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	out := *acc
	return &out, nil
}

func (m *MemoryStore) ApplyAccountTransaction(ctx context.Context, accountID int64, delta int64, rec AccountRecord) (int64, *Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[accountID]
	if !ok {
		return 0, nil, ErrAccountNotFound
	}

	newBalance := acc.Balance + delta
	if newBalance < 0 {
		return 0, nil, ErrInsufficientFunds
	}

	now := time.Now().UTC()
	acc.Balance = newBalance
	acc.UpdatedAt = now

	m.nextTxnID++
	txn := Transaction{
		ID:          m.nextTxnID,
		AccountID:   accountID,
		Name:        rec.Name,
		Details:     rec.Details,
		Amount:      rec.Amount,
		ProcessType: rec.ProcessType,
		Status:      StatusCompleted,
		CreatedAt:   now,
	}
	m.transactions[accountID] = append(m.transactions[accountID], txn)

	out := txn
	return newBalance, &out, nil
}

func (m *MemoryStore) ListTransactions(ctx context.Context, accountID int64) ([]Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.transactions[accountID]
	out := make([]Transaction, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	return out, nil
}

func (m *MemoryStore) DailyTotals(ctx context.Context, accountID int64, from time.Time) ([]DayTotal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byDay := make(map[string]*DayTotal)
	for _, t := range m.transactions[accountID] {
		if t.CreatedAt.Before(from) {
			continue
		}
		day := t.CreatedAt.UTC().Truncate(24 * time.Hour)
		key := day.Format("2006-01-02")
		total, ok := byDay[key]
		if !ok {
			total = &DayTotal{Day: day}
			byDay[key] = total
		}
		switch t.ProcessType {
		case ProcessIncome:
			total.Income += t.Amount
		case ProcessExpenses:
			total.Expenses += t.Amount
		}
	}

	out := make([]DayTotal, 0, len(byDay))
	for _, total := range byDay {
		out = append(out, *total)
	}
	return out, nil
}

func (m *MemoryStore) CreateSavingsGoal(ctx context.Context, ownerID string, upd GoalUpdate) (*SavingsGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextGoalID++
	now := time.Now().UTC()
	g := &SavingsGoal{
		ID:            m.nextGoalID,
		OwnerID:       ownerID,
		Name:          upd.Name,
		Icon:          upd.Icon,
		CurrentAmount: 0,
		TargetAmount:  upd.TargetAmount,
		DueDate:       upd.DueDate,
		Status:        GoalActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.goals[g.ID] = g

	out := *g
	return &out, nil
}

func (m *MemoryStore) GetSavingsGoal(ctx context.Context, id int64) (*SavingsGoal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.goals[id]
	if !ok {
		return nil, ErrSavingsNotFound
	}
	out := *g
	return &out, nil
}

func (m *MemoryStore) UpdateSavingsGoal(ctx context.Context, id int64, upd GoalUpdate) (*SavingsGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.goals[id]
	if !ok || g.Status != GoalActive {
		return nil, ErrSavingsNotFound
	}

	g.Name = upd.Name
	g.Icon = upd.Icon
	g.TargetAmount = upd.TargetAmount
	g.DueDate = upd.DueDate
	g.UpdatedAt = time.Now().UTC()

	out := *g
	return &out, nil
}

func (m *MemoryStore) DeleteSavingsGoal(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.goals[id]
	if !ok || g.Status != GoalActive {
		return ErrSavingsNotFound
	}
	g.Status = GoalDeleted
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryStore) ListSavingsGoals(ctx context.Context, ownerID string) ([]SavingsGoal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []SavingsGoal
	for id := m.nextGoalID; id >= 1; id-- {
		g, ok := m.goals[id]
		if !ok || g.OwnerID != ownerID || g.Status != GoalActive {
			continue
		}
		out = append(out, *g)
	}
	return out, nil
}

func (m *MemoryStore) ApplySavingsTransaction(ctx context.Context, savingsID int64, delta int64, rec SavingsRecord) (int64, *SavingsTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.goals[savingsID]
	if !ok || g.Status != GoalActive {
		return 0, nil, ErrSavingsNotFound
	}

	newAmount := g.CurrentAmount + delta
	if newAmount < 0 {
		return 0, nil, ErrInsufficientFunds
	}

	now := time.Now().UTC()
	g.CurrentAmount = newAmount
	g.UpdatedAt = now

	m.nextSavingsID++
	txn := SavingsTransaction{
		ID:          m.nextSavingsID,
		SavingsID:   savingsID,
		Name:        rec.Name,
		Amount:      rec.Amount,
		ProcessType: rec.ProcessType,
		CreatedAt:   now,
	}
	m.savingsTxns[savingsID] = append(m.savingsTxns[savingsID], txn)

	out := txn
	return newAmount, &out, nil
}

func (m *MemoryStore) ListSavingsTransactions(ctx context.Context, savingsID int64) ([]SavingsTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.savingsTxns[savingsID]
	out := make([]SavingsTransaction, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
