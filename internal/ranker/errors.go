package ranker

import (
	"fmt"

	"github.com/Laisky/errors/v2"
)

// ErrorCode classifies a RankerError for callers that need to branch on
// failure kind without string-matching messages.
type ErrorCode string

const (
	// ErrCodeSchemaViolation marks a malformed request: missing, extra, or
	// out-of-range fields. The HTTP layer maps this to a 4xx response; the
	// core pipeline is never invoked.
	ErrCodeSchemaViolation ErrorCode = "schema_violation"
)

// RankerError is a typed error carrying a stable code alongside a message,
// so callers can distinguish failure classes with errors.As instead of
// matching on error text.
type RankerError struct {
	Code ErrorCode
	Msg  string
}

func (e *RankerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// NewError builds a *RankerError wrapped with a stack trace.
func NewError(code ErrorCode, msg string) error {
	return errors.WithStack(&RankerError{Code: code, Msg: msg})
}

// NewErrorf builds a *RankerError with a formatted message.
func NewErrorf(code ErrorCode, format string, args ...any) error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// AsError unwraps err into a *RankerError if the chain contains one.
func AsError(err error) (*RankerError, bool) {
	var rerr *RankerError
	if errors.As(err, &rerr) {
		return rerr, true
	}
	return nil, false
}
