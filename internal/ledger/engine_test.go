package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
)

const testOwner = "11111111-1111-1111-1111-111111111111"

func newTestAccount(t *testing.T, store *MemoryStore, initial int64) *Account {
	t.Helper()
	acc, err := store.CreateAccount(context.Background(), testOwner)
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if initial > 0 {
		engine := NewEngine(store)
		_, err := engine.PostAccountTransaction(context.Background(), AccountTransactionInput{
			AccountID:   acc.ID,
			Name:        "opening balance",
			Amount:      initial,
			ProcessType: ProcessIncome,
		})
		if err != nil {
			t.Fatalf("seed balance: %v", err)
		}
	}
	return acc
}

func TestPostAccountTransactionIncome(t *testing.T) {
	store := NewMemoryStore()
	engine := NewEngine(store)
	acc := newTestAccount(t, store, 0)

	result, err := engine.PostAccountTransaction(context.Background(), AccountTransactionInput{
		AccountID:   acc.ID,
		Name:        "salary",
		Amount:      50000,
		ProcessType: ProcessIncome,
	})
	if err != nil {
		t.Fatalf("PostAccountTransaction: %v", err)
	}
	if result.Balance != 50000 {
		t.Errorf("balance = %d, want 50000", result.Balance)
	}
	if result.Transaction == nil {
		t.Fatal("expected a transaction record")
	}
	if result.Transaction.Amount != 50000 || result.Transaction.ProcessType != ProcessIncome {
		t.Errorf("record = %+v, want amount 50000 INCOME", result.Transaction)
	}
	if result.Transaction.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", result.Transaction.Status, StatusCompleted)
	}

	got, err := store.GetAccount(context.Background(), acc.ID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if got.Balance != 50000 {
		t.Errorf("stored balance = %d, want 50000", got.Balance)
	}
}

func TestPostAccountTransactionOverdraft(t *testing.T) {
	store := NewMemoryStore()
	engine := NewEngine(store)
	acc := newTestAccount(t, store, 100)

	_, err := engine.PostAccountTransaction(context.Background(), AccountTransactionInput{
		AccountID:   acc.ID,
		Name:        "groceries",
		Amount:      101,
		ProcessType: ProcessExpenses,
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	got, err := store.GetAccount(context.Background(), acc.ID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if got.Balance != 100 {
		t.Errorf("balance after rejected expense = %d, want 100", got.Balance)
	}

	txns, err := store.ListTransactions(context.Background(), acc.ID)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txns) != 1 {
		t.Errorf("transaction count = %d, want 1 (only the seed income)", len(txns))
	}
}

func TestPostAccountTransactionValidation(t *testing.T) {
	store := NewMemoryStore()
	engine := NewEngine(store)
	acc := newTestAccount(t, store, 100)

	cases := []struct {
		name string
		in   AccountTransactionInput
		want error
	}{
		{"zero amount", AccountTransactionInput{AccountID: acc.ID, Name: "x", Amount: 0, ProcessType: ProcessIncome}, ErrInvalidAmount},
		{"negative amount", AccountTransactionInput{AccountID: acc.ID, Name: "x", Amount: -5, ProcessType: ProcessIncome}, ErrInvalidAmount},
		{"bad process type", AccountTransactionInput{AccountID: acc.ID, Name: "x", Amount: 10, ProcessType: "TRANSFER"}, ErrInvalidProcessType},
		{"empty name", AccountTransactionInput{AccountID: acc.ID, Name: "  ", Amount: 10, ProcessType: ProcessIncome}, ErrNameRequired},
		{"missing account", AccountTransactionInput{AccountID: 9999, Name: "x", Amount: 10, ProcessType: ProcessIncome}, ErrAccountNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.PostAccountTransaction(context.Background(), tc.in)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestAccountArithmeticExact(t *testing.T) {
	store := NewMemoryStore()
	engine := NewEngine(store)
	acc := newTestAccount(t, store, 0)

	ops := []struct {
		amount int64
		typ    ProcessType
	}{
		{1000, ProcessIncome},
		{333, ProcessExpenses},
		{1, ProcessIncome},
		{667, ProcessExpenses},
		{999, ProcessIncome},
	}
	for _, op := range ops {
		if _, err := engine.PostAccountTransaction(context.Background(), AccountTransactionInput{
			AccountID:   acc.ID,
			Name:        "op",
			Amount:      op.amount,
			ProcessType: op.typ,
		}); err != nil {
			t.Fatalf("op %+v: %v", op, err)
		}
	}

	txns, err := store.ListTransactions(context.Background(), acc.ID)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	var sum int64
	for _, txn := range txns {
		if txn.ProcessType == ProcessIncome {
			sum += txn.Amount
		} else {
			sum -= txn.Amount
		}
	}

	got, err := store.GetAccount(context.Background(), acc.ID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if got.Balance != sum {
		t.Errorf("balance = %d, signed record sum = %d; must match exactly", got.Balance, sum)
	}
	if got.Balance != 1000 {
		t.Errorf("balance = %d, want 1000", got.Balance)
	}
}

func TestAccountEndToEnd(t *testing.T) {
	store := NewMemoryStore()
	engine := NewEngine(store)
	acc := newTestAccount(t, store, 0)
	ctx := context.Background()

	r1, err := engine.PostAccountTransaction(ctx, AccountTransactionInput{
		AccountID: acc.ID, Name: "income", Amount: 500, ProcessType: ProcessIncome,
	})
	if err != nil || r1.Balance != 500 {
		t.Fatalf("income 500: balance %v err %v, want 500 nil", r1, err)
	}

	r2, err := engine.PostAccountTransaction(ctx, AccountTransactionInput{
		AccountID: acc.ID, Name: "spend", Amount: 500, ProcessType: ProcessExpenses,
	})
	if err != nil || r2.Balance != 0 {
		t.Fatalf("expense 500: balance %v err %v, want 0 nil", r2, err)
	}

	_, err = engine.PostAccountTransaction(ctx, AccountTransactionInput{
		AccountID: acc.ID, Name: "overdraft", Amount: 1, ProcessType: ProcessExpenses,
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expense 1 on empty account: err = %v, want ErrInsufficientFunds", err)
	}

	got, _ := store.GetAccount(ctx, acc.ID)
	if got.Balance != 0 {
		t.Errorf("final balance = %d, want 0", got.Balance)
	}
}

func TestConcurrentExpensesNoLostUpdates(t *testing.T) {
	store := NewMemoryStore()
	engine := NewEngine(store)
	acc := newTestAccount(t, store, 1000)
	ctx := context.Background()

	const n = 10
	const amount = 100

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.PostAccountTransaction(ctx, AccountTransactionInput{
				AccountID: acc.ID, Name: "parallel spend", Amount: amount, ProcessType: ProcessExpenses,
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("call %d failed: %v (N*a == B, all must succeed)", i, err)
		}
	}

	got, _ := store.GetAccount(ctx, acc.ID)
	if got.Balance != 0 {
		t.Errorf("balance = %d, want 0 (no lost updates)", got.Balance)
	}
}

func TestConcurrentExpensesRejectExcess(t *testing.T) {
	store := NewMemoryStore()
	engine := NewEngine(store)
	acc := newTestAccount(t, store, 500)
	ctx := context.Background()

	const n = 10
	const amount = 100

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.PostAccountTransaction(ctx, AccountTransactionInput{
				AccountID: acc.ID, Name: "parallel spend", Amount: amount, ProcessType: ProcessExpenses,
			})
		}(i)
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrInsufficientFunds):
			rejected++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 5 || rejected != 5 {
		t.Errorf("ok=%d rejected=%d, want 5/5", ok, rejected)
	}

	got, _ := store.GetAccount(ctx, acc.ID)
	if got.Balance != 0 {
		t.Errorf("balance = %d, want 0", got.Balance)
	}

	txns, _ := store.ListTransactions(ctx, acc.ID)
	// seed income + exactly the successful expenses
	if len(txns) != 6 {
		t.Errorf("record count = %d, want 6", len(txns))
	}
}

func TestPostSavingsTransaction(t *testing.T) {
	store := NewMemoryStore()
	engine := NewEngine(store)
	ctx := context.Background()

	goal, err := store.CreateSavingsGoal(ctx, testOwner, GoalUpdate{Name: "vacation", TargetAmount: 100000})
	if err != nil {
		t.Fatalf("CreateSavingsGoal: %v", err)
	}

	r1, err := engine.PostSavingsTransaction(ctx, SavingsTransactionInput{
		SavingsID: goal.ID, Name: "monthly deposit", Amount: 25000, ProcessType: SavingsFund,
	})
	if err != nil || r1.CurrentAmount != 25000 {
		t.Fatalf("fund: got %v err %v, want 25000 nil", r1, err)
	}

	r2, err := engine.PostSavingsTransaction(ctx, SavingsTransactionInput{
		SavingsID: goal.ID, Name: "emergency", Amount: 10000, ProcessType: SavingsWithdraw,
	})
	if err != nil || r2.CurrentAmount != 15000 {
		t.Fatalf("withdraw: got %v err %v, want 15000 nil", r2, err)
	}

	_, err = engine.PostSavingsTransaction(ctx, SavingsTransactionInput{
		SavingsID: goal.ID, Name: "too much", Amount: 15001, ProcessType: SavingsWithdraw,
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("over-withdraw: err = %v, want ErrInsufficientFunds", err)
	}

	got, _ := store.GetSavingsGoal(ctx, goal.ID)
	if got.CurrentAmount != 15000 {
		t.Errorf("current_amount = %d, want 15000", got.CurrentAmount)
	}

	txns, _ := store.ListSavingsTransactions(ctx, goal.ID)
	if len(txns) != 2 {
		t.Errorf("savings record count = %d, want 2", len(txns))
	}
	if len(txns) > 0 && txns[0].ProcessType != SavingsWithdraw {
		t.Errorf("newest record = %+v, want the WITHDRAW first", txns[0])
	}
}

func TestPostSavingsTransactionDeletedGoal(t *testing.T) {
	store := NewMemoryStore()
	engine := NewEngine(store)
	ctx := context.Background()

	goal, err := store.CreateSavingsGoal(ctx, testOwner, GoalUpdate{Name: "old goal", TargetAmount: 1000})
	if err != nil {
		t.Fatalf("CreateSavingsGoal: %v", err)
	}
	if err := store.DeleteSavingsGoal(ctx, goal.ID); err != nil {
		t.Fatalf("DeleteSavingsGoal: %v", err)
	}

	_, err = engine.PostSavingsTransaction(ctx, SavingsTransactionInput{
		SavingsID: goal.ID, Name: "deposit", Amount: 100, ProcessType: SavingsFund,
	})
	if !errors.Is(err, ErrSavingsNotFound) {
		t.Errorf("err = %v, want ErrSavingsNotFound", err)
	}
}
