package audit

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Actions recorded against the audit_logs table.
const (
	ActionWalletCreate       = "wallet.create"
	ActionTransactionCreate  = "transaction.create"
	ActionSavingsCreate      = "savings.create"
	ActionSavingsUpdate      = "savings.update"
	ActionSavingsDelete      = "savings.delete"
	ActionSavingsTransaction = "savings.transaction"
)

type Entry struct {
	UserID   string
	Action   string
	EntityID int64
	Metadata any
}

// Logger writes audit rows best-effort; a nil pool (tests, memory mode)
// turns it into a no-op.
type Logger struct {
	Pool *pgxpool.Pool
}

func (l *Logger) Record(ctx context.Context, e Entry) {
	if l == nil || l.Pool == nil {
		return
	}

	var metadata []byte
	if e.Metadata != nil {
		metadata, _ = json.Marshal(e.Metadata)
	}

	_, _ = l.Pool.Exec(ctx, `
INSERT INTO audit_logs (user_id, action, entity_id, metadata)
VALUES ($1::uuid, $2, $3, $4)
`, e.UserID, e.Action, e.EntityID, metadata)
}
