package runtime

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrNotConnected is returned when no connection source is configured.
	ErrNotConnected = errors.New("database hasn't been connected")
	// ErrUnsupportedResultArity is returned when a result set has 0 or more than 7 columns.
	ErrUnsupportedResultArity = errors.New("unable to handle result sets with 0 or more than 7 columns")
	// ErrBackendExecution matches every *ExecutionError.
	ErrBackendExecution = errors.New("backend execution failed")
	// ErrTransactionAborted is recorded on a Transaction that rolled back.
	ErrTransactionAborted = errors.New("transaction aborted")
	// ErrTransactionDone is returned when a finished Transaction is executed again.
	ErrTransactionDone = errors.New("transaction has already been executed")
	// ErrUnknownDriver is returned when a URL does not identify a database/sql driver.
	ErrUnknownDriver = errors.New("no driver for connection url")
)

// ExecutionError is a statement rejected by the backend.
type ExecutionError struct {
	Statement string
	Message   string // backend message, verbatim
	Err       error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute %q: %s", e.Statement, e.Message)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

func (e *ExecutionError) Is(target error) bool { return target == ErrBackendExecution }

func newExecutionError(statement string, err error) *ExecutionError {
	return &ExecutionError{Statement: statement, Message: backendMessage(err), Err: err}
}

func backendMessage(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Message
	}
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Message
	}
	return err.Error()
}
