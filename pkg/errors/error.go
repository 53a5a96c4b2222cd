package errors

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

const (
	InvalidDelayCode    = 400
	NotFoundCode        = 404
	EmptyQueueCode      = 410
	InvalidCallbackCode = 422
	CallbackFailureCode = 500
)

// Sentinels for use with the standard library's errors.Is. Matching is by code.
var (
	ErrInvalidDelay    = NonFatalError(InvalidDelayCode, "invalid delay", "")
	ErrNotFound        = NonFatalError(NotFoundCode, "not found", "")
	ErrEmptyQueue      = FatalError(EmptyQueueCode, "empty queue", "")
	ErrCallbackFailure = NonFatalError(CallbackFailureCode, "callback failure", "")
)

type Error interface {
	error
	Fatal() bool
	Temporary() bool
	Code() int
	Reason() string
	Caller() string
	Log()
}

func NonFatalError(code int, reason string, caller string) Error {
	return &genericErr{
		fatal:     false,
		temporary: false,
		code:      code,
		reason:    reason,
		caller:    caller,
	}
}

func FatalError(code int, reason string, caller string) Error {
	return &genericErr{
		fatal:     true,
		temporary: false,
		code:      code,
		reason:    reason,
		caller:    caller,
	}
}

func TemporaryError(code int, reason string, caller string) Error {
	return &genericErr{
		fatal:     false,
		temporary: true,
		code:      code,
		reason:    reason,
		caller:    caller,
	}
}

// InvalidDelay reports a negative delay or a non-positive interval.
func InvalidDelay(delay fmt.Stringer, caller string) Error {
	return NonFatalError(InvalidDelayCode, fmt.Sprintf("invalid delay: %s", delay), caller)
}

// CallbackFailure wraps whatever a callback returned or panicked with.
func CallbackFailure(callback string, cause interface{}, caller string) Error {
	return &genericErr{
		code:   CallbackFailureCode,
		reason: fmt.Sprintf("callback %s failed: %v", callback, cause),
		caller: caller,
		cause:  asError(cause),
	}
}

func asError(cause interface{}) error {
	if err, ok := cause.(error); ok {
		return err
	}
	return nil
}

type genericErr struct {
	fatal     bool
	temporary bool
	code      int
	reason    string
	caller    string
	cause     error
}

func (err *genericErr) Error() string {
	if err.caller == "" {
		return fmt.Sprintf("%d: %s", err.code, err.reason)
	}
	return fmt.Sprintf("[%s] %d: %s", err.caller, err.code, err.reason)
}

// Is makes two errors with the same code equal under errors.Is.
func (err *genericErr) Is(target error) bool {
	other, ok := target.(Error)
	if !ok {
		return false
	}
	return other.Code() == err.code
}

func (err *genericErr) Unwrap() error {
	return err.cause
}

func (err *genericErr) Log() {
	log.Errorf("[%s]: Error type: %d, Reason: %s", err.Caller(), err.Code(), err.Reason())
}

func (err *genericErr) Fatal() bool {
	return err.fatal
}

func (err *genericErr) Temporary() bool {
	return err.temporary
}

func (err *genericErr) Code() int {
	return err.code
}

func (err *genericErr) Caller() string {
	return err.caller
}

func (err *genericErr) Reason() string {
	return err.reason
}
