package runtime

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TechXTT/sqlkit/pkg/query"
)

// TxState is the lifecycle position of a Transaction.
type TxState int

const (
	TxIdle TxState = iota
	TxExecuting
	TxCommitted
	TxRolledBack
)

func (s TxState) String() string {
	switch s {
	case TxIdle:
		return "idle"
	case TxExecuting:
		return "executing"
	case TxCommitted:
		return "committed"
	case TxRolledBack:
		return "rolled back"
	default:
		return "unknown"
	}
}

// Transaction runs an ordered list of statements on one connection with
// all-or-nothing semantics.
//
// A failing statement stops the sequence and rolls back. The failure is
// reported only through the OnRollback handler and Err; Execute does not
// return it. Without a handler the cause is discarded after rollback.
type Transaction struct {
	db         *Database
	statements []query.Statement
	onRollback func(cause string)
	state      TxState
	err        error
}

// Transaction starts a transaction holding stmts.
func (d *Database) Transaction(stmts ...query.Statement) *Transaction {
	return &Transaction{db: d, statements: stmts}
}

// Add queues more statements.
func (t *Transaction) Add(stmts ...query.Statement) *Transaction {
	t.statements = append(t.statements, stmts...)
	return t
}

// OnRollback registers the handler receiving the failure's backend message.
func (t *Transaction) OnRollback(handler func(cause string)) *Transaction {
	t.onRollback = handler
	return t
}

// State returns the current lifecycle state.
func (t *Transaction) State() TxState { return t.state }

// Err returns the failure that caused a rollback, wrapping ErrTransactionAborted.
func (t *Transaction) Err() error { return t.err }

// Execute acquires one connection and runs every statement in order.
// Only acquisition failures are returned; statement and commit failures
// roll back and go to the handler.
func (t *Transaction) Execute(ctx context.Context) error {
	if t.state != TxIdle {
		return ErrTransactionDone
	}
	pool, dialect, err := t.db.conn()
	if err != nil {
		return err
	}
	tx, err := pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	t.state = TxExecuting
	t.db.log.Debug("start of transaction", "statements", len(t.statements))

	for i, stmt := range t.statements {
		if _, err := t.db.execute(ctx, tx, dialect, stmt); err != nil {
			t.abort(tx, i, err)
			return nil
		}
	}
	if err := tx.Commit(); err != nil {
		t.abort(tx, len(t.statements), newExecutionError("COMMIT", err))
		return nil
	}
	t.state = TxCommitted
	t.db.log.Debug("end of transaction", "state", t.state.String())
	return nil
}

func (t *Transaction) abort(tx *sql.Tx, index int, cause error) {
	t.db.log.Debug("transaction failed", "statement", index, "error", cause)
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		t.db.log.Warn("rollback failed", "error", err)
	}
	t.state = TxRolledBack
	t.err = fmt.Errorf("%w: statement %d: %w", ErrTransactionAborted, index, cause)
	if t.onRollback != nil {
		t.onRollback(backendMessage(cause))
	}
	t.db.log.Debug("end of transaction", "state", t.state.String())
}
