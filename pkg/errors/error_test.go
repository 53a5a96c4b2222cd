package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"
)

func TestErrorsMatchByCode(t *testing.T) {
	err := InvalidDelay(-time.Second, "timerService")
	if !stderrors.Is(err, ErrInvalidDelay) {
		t.Errorf("expected %v to match ErrInvalidDelay", err)
	}
	if stderrors.Is(err, ErrNotFound) {
		t.Error("InvalidDelay should not match ErrNotFound")
	}
	if err.Fatal() {
		t.Error("InvalidDelay should not be fatal")
	}
}

func TestCallbackFailureUnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := CallbackFailure("ping", cause, "timerService")
	if !stderrors.Is(err, cause) {
		t.Error("expected callback failure to wrap its cause")
	}
	if !stderrors.Is(err, ErrCallbackFailure) {
		t.Error("expected callback failure to match ErrCallbackFailure")
	}

	panicErr := CallbackFailure("ping", "some panic value", "timerService")
	if stderrors.Unwrap(panicErr) != nil {
		t.Error("non-error panic values should not be unwrapped")
	}
}

func TestErrorString(t *testing.T) {
	err := NonFatalError(NotFoundCode, "timer not found", "timerService")
	if err.Error() != "[timerService] 404: timer not found" {
		t.Errorf("unexpected error string %q", err.Error())
	}
	if ErrEmptyQueue.Error() != "410: empty queue" {
		t.Errorf("unexpected error string %q", ErrEmptyQueue.Error())
	}
}
