package engine

import (
	"errors"
	"fmt"

	"github.com/comandalabs/comanda/internal/sqlgen"
)

// ErrorCode categorizes query failures.
type ErrorCode string

const (
	// CodeBadRequest indicates the request was rejected at compile
	// time (unsupported operator, unknown subject, malformed value).
	// No SQL reached the store.
	CodeBadRequest ErrorCode = "BAD_REQUEST"

	// CodeExecutionFailed indicates the store rejected or failed the
	// compiled statement (malformed SQL from an unanticipated field
	// combination, type mismatch, connectivity loss, ...).
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"
)

// QueryError is the single classified error kind both entry points
// propagate. Callers get a stable code and a human-readable message,
// never a raw database error.
type QueryError struct {
	Code    ErrorCode
	Message string
	Err     error // underlying cause, for logs and errors.Is/As chains
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// classifyCompileError wraps a compiler failure. sqlgen raises only
// *BadRequestError values; anything else is unexpected and classified
// as an execution failure so it still carries a stable code.
func classifyCompileError(err error) *QueryError {
	var badReq *sqlgen.BadRequestError
	if errors.As(err, &badReq) {
		return &QueryError{Code: CodeBadRequest, Message: badReq.Message, Err: err}
	}
	return &QueryError{Code: CodeExecutionFailed, Message: err.Error(), Err: err}
}

// executionFailed wraps a store failure, embedding the upstream
// message.
func executionFailed(err error) *QueryError {
	return &QueryError{
		Code:    CodeExecutionFailed,
		Message: fmt.Sprintf("query execution failed: %v", err),
		Err:     err,
	}
}
