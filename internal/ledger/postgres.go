package ledger

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code hit when a generated account
// number collides with an existing one.
const uniqueViolation = "23505"

const accountNumberAttempts = 5

// PostgresStore is the production Store backed by a pgx pool. Balance
// mutations take a row lock (SELECT ... FOR UPDATE) and commit the balance
// update together with the transaction record, so concurrent callers on the
// same row serialize and partial writes cannot happen.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{Pool: pool}
}

func randomAccountNumber() int64 {
	return 10000001 + rand.Int63n(89999999-10000001)
}

func (s *PostgresStore) CreateAccount(ctx context.Context, ownerID string) (*Account, error) {
	var lastErr error
	for i := 0; i < accountNumberAttempts; i++ {
		acc := &Account{OwnerID: ownerID, Number: randomAccountNumber()}
		err := s.Pool.QueryRow(ctx,
			`INSERT INTO accounts (owner_id, balance, account_number)
			 VALUES ($1::uuid, 0, $2)
			 RETURNING id, balance, created_at, updated_at`,
			ownerID, acc.Number,
		).Scan(&acc.ID, &acc.Balance, &acc.CreatedAt, &acc.UpdatedAt)
		if err == nil {
			return acc, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

func (s *PostgresStore) GetAccount(ctx context.Context, id int64) (*Account, error) {
	var acc Account
	err := s.Pool.QueryRow(ctx,
		`SELECT id, owner_id::text, balance, account_number, created_at, updated_at
		 FROM accounts
		 WHERE id = $1`,
		id,
	).Scan(&acc.ID, &acc.OwnerID, &acc.Balance, &acc.Number, &acc.CreatedAt, &acc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *PostgresStore) ApplyAccountTransaction(ctx context.Context, accountID int64, delta int64, rec AccountRecord) (int64, *Transaction, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return 0, nil, err
	}
	defer tx.Rollback(ctx)

	var balance int64
	err = tx.QueryRow(ctx,
		`SELECT balance FROM accounts WHERE id = $1 FOR UPDATE`,
		accountID,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil, ErrAccountNotFound
	}
	if err != nil {
		return 0, nil, err
	}

	newBalance := balance + delta
	if newBalance < 0 {
		return 0, nil, ErrInsufficientFunds
	}

	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET balance = $1, updated_at = now() WHERE id = $2`,
		newBalance, accountID,
	); err != nil {
		return 0, nil, err
	}

	txn := &Transaction{
		AccountID:   accountID,
		Name:        rec.Name,
		Details:     rec.Details,
		Amount:      rec.Amount,
		ProcessType: rec.ProcessType,
		Status:      StatusCompleted,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO transactions (account_id, name, details, amount, process_type, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		accountID, rec.Name, rec.Details, rec.Amount, rec.ProcessType, StatusCompleted,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return 0, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, nil, err
	}
	return newBalance, txn, nil
}

func (s *PostgresStore) ListTransactions(ctx context.Context, accountID int64) ([]Transaction, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, account_id, name, details, amount, process_type, status, created_at
		 FROM transactions
		 WHERE account_id = $1
		 ORDER BY created_at DESC, id DESC`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Name, &t.Details, &t.Amount, &t.ProcessType, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DailyTotals(ctx context.Context, accountID int64, from time.Time) ([]DayTotal, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT (created_at AT TIME ZONE 'UTC')::date AS day,
		        COALESCE(SUM(amount) FILTER (WHERE process_type = 'INCOME'), 0)::bigint AS income,
		        COALESCE(SUM(amount) FILTER (WHERE process_type = 'EXPENSES'), 0)::bigint AS expenses
		 FROM transactions
		 WHERE account_id = $1 AND created_at >= $2
		 GROUP BY day
		 ORDER BY day DESC`,
		accountID, from,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DayTotal
	for rows.Next() {
		var d DayTotal
		if err := rows.Scan(&d.Day, &d.Income, &d.Expenses); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateSavingsGoal(ctx context.Context, ownerID string, upd GoalUpdate) (*SavingsGoal, error) {
	g := &SavingsGoal{
		OwnerID:      ownerID,
		Name:         upd.Name,
		Icon:         upd.Icon,
		TargetAmount: upd.TargetAmount,
		DueDate:      upd.DueDate,
		Status:       GoalActive,
	}
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO savings_goals (owner_id, name, icon, current_amount, target_amount, due_date, status)
		 VALUES ($1::uuid, $2, $3, 0, $4, $5, $6)
		 RETURNING id, current_amount, created_at, updated_at`,
		ownerID, upd.Name, upd.Icon, upd.TargetAmount, upd.DueDate, GoalActive,
	).Scan(&g.ID, &g.CurrentAmount, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *PostgresStore) GetSavingsGoal(ctx context.Context, id int64) (*SavingsGoal, error) {
	var g SavingsGoal
	err := s.Pool.QueryRow(ctx,
		`SELECT id, owner_id::text, name, icon, current_amount, target_amount, due_date, status, created_at, updated_at
		 FROM savings_goals
		 WHERE id = $1`,
		id,
	).Scan(&g.ID, &g.OwnerID, &g.Name, &g.Icon, &g.CurrentAmount, &g.TargetAmount, &g.DueDate, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSavingsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *PostgresStore) UpdateSavingsGoal(ctx context.Context, id int64, upd GoalUpdate) (*SavingsGoal, error) {
	var g SavingsGoal
	err := s.Pool.QueryRow(ctx,
		`UPDATE savings_goals
		 SET name = $1, icon = $2, target_amount = $3, due_date = $4, updated_at = now()
		 WHERE id = $5 AND status = $6
		 RETURNING id, owner_id::text, name, icon, current_amount, target_amount, due_date, status, created_at, updated_at`,
		upd.Name, upd.Icon, upd.TargetAmount, upd.DueDate, id, GoalActive,
	).Scan(&g.ID, &g.OwnerID, &g.Name, &g.Icon, &g.CurrentAmount, &g.TargetAmount, &g.DueDate, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSavingsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *PostgresStore) DeleteSavingsGoal(ctx context.Context, id int64) error {
	tag, err := s.Pool.Exec(ctx,
		`UPDATE savings_goals SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`,
		GoalDeleted, id, GoalActive,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSavingsNotFound
	}
	return nil
}

func (s *PostgresStore) ListSavingsGoals(ctx context.Context, ownerID string) ([]SavingsGoal, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, owner_id::text, name, icon, current_amount, target_amount, due_date, status, created_at, updated_at
		 FROM savings_goals
		 WHERE owner_id = $1::uuid AND status = $2
		 ORDER BY created_at DESC, id DESC`,
		ownerID, GoalActive,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SavingsGoal
	for rows.Next() {
		var g SavingsGoal
		if err := rows.Scan(&g.ID, &g.OwnerID, &g.Name, &g.Icon, &g.CurrentAmount, &g.TargetAmount, &g.DueDate, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ApplySavingsTransaction(ctx context.Context, savingsID int64, delta int64, rec SavingsRecord) (int64, *SavingsTransaction, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return 0, nil, err
	}
	defer tx.Rollback(ctx)

	var current int64
	err = tx.QueryRow(ctx,
		`SELECT current_amount FROM savings_goals WHERE id = $1 AND status = $2 FOR UPDATE`,
		savingsID, GoalActive,
	).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil, ErrSavingsNotFound
	}
	if err != nil {
		return 0, nil, err
	}

	newAmount := current + delta
	if newAmount < 0 {
		return 0, nil, ErrInsufficientFunds
	}

	if _, err := tx.Exec(ctx,
		`UPDATE savings_goals SET current_amount = $1, updated_at = now() WHERE id = $2`,
		newAmount, savingsID,
	); err != nil {
		return 0, nil, err
	}

	txn := &SavingsTransaction{
		SavingsID:   savingsID,
		Name:        rec.Name,
		Amount:      rec.Amount,
		ProcessType: rec.ProcessType,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO savings_transactions (savings_id, name, amount, process_type)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		savingsID, rec.Name, rec.Amount, rec.ProcessType,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return 0, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, nil, err
	}
	return newAmount, txn, nil
}

func (s *PostgresStore) ListSavingsTransactions(ctx context.Context, savingsID int64) ([]SavingsTransaction, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, savings_id, name, amount, process_type, created_at
		 FROM savings_transactions
		 WHERE savings_id = $1
		 ORDER BY created_at DESC, id DESC`,
		savingsID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SavingsTransaction
	for rows.Next() {
		var t SavingsTransaction
		if err := rows.Scan(&t.ID, &t.SavingsID, &t.Name, &t.Amount, &t.ProcessType, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

var _ Store = (*PostgresStore)(nil)
