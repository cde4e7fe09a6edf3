package ledger

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreAccountNumbersUnique(t *testing.T) {
	store := NewMemoryStore()
	seen := make(map[int64]bool)
	for i := 0; i < 50; i++ {
		acc, err := store.CreateAccount(context.Background(), testOwner)
		if err != nil {
			t.Fatalf("CreateAccount: %v", err)
		}
		if acc.Number < 10000001 || acc.Number > 99999999 {
			t.Errorf("account number %d outside 8-digit range", acc.Number)
		}
		if seen[acc.Number] {
			t.Errorf("duplicate account number %d", acc.Number)
		}
		seen[acc.Number] = true
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	engine := NewEngine(store)
	acc := newTestAccount(t, store, 0)
	ctx := context.Background()

	names := []string{"first", "second", "third"}
	for _, name := range names {
		if _, err := engine.PostAccountTransaction(ctx, AccountTransactionInput{
			AccountID: acc.ID, Name: name, Amount: 10, ProcessType: ProcessIncome,
		}); err != nil {
			t.Fatalf("post %q: %v", name, err)
		}
	}

	txns, err := store.ListTransactions(ctx, acc.ID)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txns) != 3 {
		t.Fatalf("len = %d, want 3", len(txns))
	}
	for i, want := range []string{"third", "second", "first"} {
		if txns[i].Name != want {
			t.Errorf("txns[%d].Name = %q, want %q", i, txns[i].Name, want)
		}
	}
}

func TestMemoryStoreGoalLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	g1, err := store.CreateSavingsGoal(ctx, testOwner, GoalUpdate{Name: "car", TargetAmount: 500000})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	g2, err := store.CreateSavingsGoal(ctx, testOwner, GoalUpdate{Name: "house", TargetAmount: 9000000})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	icon := "piggy"
	updated, err := store.UpdateSavingsGoal(ctx, g1.ID, GoalUpdate{Name: "new car", Icon: &icon, TargetAmount: 600000})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "new car" || updated.TargetAmount != 600000 || updated.Icon == nil || *updated.Icon != "piggy" {
		t.Errorf("updated = %+v", updated)
	}

	if err := store.DeleteSavingsGoal(ctx, g2.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	goals, err := store.ListSavingsGoals(ctx, testOwner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(goals) != 1 || goals[0].ID != g1.ID {
		t.Errorf("active goals = %+v, want only %d", goals, g1.ID)
	}

	// a deleted goal still resolves by id, with DELETED status
	got, err := store.GetSavingsGoal(ctx, g2.ID)
	if err != nil {
		t.Fatalf("get deleted: %v", err)
	}
	if got.Status != GoalDeleted {
		t.Errorf("status = %q, want %q", got.Status, GoalDeleted)
	}

	if _, err := store.UpdateSavingsGoal(ctx, g2.ID, GoalUpdate{Name: "x", TargetAmount: 1}); !errors.Is(err, ErrSavingsNotFound) {
		t.Errorf("update deleted: err = %v, want ErrSavingsNotFound", err)
	}
	if err := store.DeleteSavingsGoal(ctx, g2.ID); !errors.Is(err, ErrSavingsNotFound) {
		t.Errorf("double delete: err = %v, want ErrSavingsNotFound", err)
	}
}
