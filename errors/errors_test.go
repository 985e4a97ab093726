package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Message(t *testing.T) {
	err := UnknownHostFunction(3, "env.alert")
	msg := err.Error()

	if !strings.Contains(msg, "dispatch") {
		t.Errorf("message should name the phase: %s", msg)
	}
	if !strings.Contains(msg, "env.alert") {
		t.Errorf("message should carry the identity: %s", msg)
	}
	if !strings.Contains(msg, "handle 3") {
		t.Errorf("message should carry the handle: %s", msg)
	}
}

func TestError_HandleZeroIsRendered(t *testing.T) {
	// Slot 0 is a valid handle and must show up in diagnostics.
	err := UnknownInstance(PhaseDispatch, 0)
	if !strings.Contains(err.Error(), "handle 0") {
		t.Errorf("handle 0 missing from message: %s", err.Error())
	}
}

func TestError_NoHandleOmitted(t *testing.T) {
	err := UnknownExport("main")
	if strings.Contains(err.Error(), "handle") {
		t.Errorf("message should not mention a handle: %s", err.Error())
	}
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", CapacityExhausted(1024))

	if !stderrors.Is(err, CapacityExhausted(0)) {
		t.Error("expected match on Phase+Kind")
	}
	if stderrors.Is(err, DuplicateIdentity("env.x")) {
		t.Error("different kinds must not match")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("integer divide by zero")
	err := ExecutionTrap("boom", cause)

	if !stderrors.Is(err, cause) {
		t.Error("cause should be reachable through Unwrap")
	}
	if !strings.Contains(err.Error(), "divide by zero") {
		t.Errorf("cause missing from message: %s", err.Error())
	}
}

func TestArityMismatch_Detail(t *testing.T) {
	err := ArityMismatch("add", 2, 3)
	msg := err.Error()
	if !strings.Contains(msg, "takes 2 arguments, got 3") {
		t.Errorf("unexpected detail: %s", msg)
	}
}
