package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeIllegalState, "stream already consumed")
	if err.Code != ErrCodeIllegalState {
		t.Errorf("expected code %s, got %s", ErrCodeIllegalState, err.Code)
	}
	if err.Message != "stream already consumed" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if !strings.Contains(err.Error(), "ILLEGAL_STATE") {
		t.Errorf("expected code in message, got %q", err.Error())
	}
}

func TestAppError_InvalidArgument(t *testing.T) {
	err := InvalidArgument("limit", "must not be negative")
	if err.Details["param"] != "limit" {
		t.Errorf("expected param=limit, got %v", err.Details["param"])
	}
	if !IsUsageCode(err.Code) {
		t.Error("INVALID_ARGUMENT should be a usage code")
	}
}

func TestAppError_ClosureFailed_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := ClosureFailed("map", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if IsUsageCode(err.Code) {
		t.Error("CLOSURE_FAILED should not be a usage code")
	}
}

func TestAppError_Suppress(t *testing.T) {
	primary := IllegalState("first")
	second := stderrors.New("second")
	third := stderrors.New("third")
	primary.Suppress(nil, second, primary, third)

	got := primary.Suppressed()
	if len(got) != 2 || got[0] != second || got[1] != third {
		t.Fatalf("unexpected suppressed errors: %v", got)
	}
	if !strings.Contains(primary.Error(), "+2 suppressed") {
		t.Errorf("expected suppressed count in message, got %q", primary.Error())
	}
}

func TestCombine(t *testing.T) {
	if Combine(Canceled) != nil {
		t.Fatal("expected nil for no errors")
	}
	plain := stderrors.New("plain")
	app := IllegalState("later")
	err := Combine(func(e error) *AppError { return ClosureFailed("op", e) }, nil, plain, app)

	appErr, ok := AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != ErrCodeClosureFailed || appErr.Cause != plain {
		t.Errorf("unexpected primary: %v", appErr)
	}
	if s := appErr.Suppressed(); len(s) != 1 || s[0] != app {
		t.Errorf("unexpected suppressed: %v", s)
	}
}

func TestHasCode(t *testing.T) {
	err := ConcurrentModification("list")
	if !HasCode(err, ErrCodeConcurrentModification) {
		t.Error("expected HasCode to match")
	}
	if HasCode(stderrors.New("x"), ErrCodeConcurrentModification) {
		t.Error("plain error should not match")
	}
}

func TestThrow_FromPanic(t *testing.T) {
	cause := InvalidArgument("n", "bad")
	got := func() (err error) {
		defer Recover(&err)
		Throw(cause)
		return nil
	}()
	if got != cause {
		t.Errorf("expected thrown error back, got %v", got)
	}
}

func TestFromPanic_Value(t *testing.T) {
	err := FromPanic("kaboom")
	if !HasCode(err, ErrCodePanic) {
		t.Fatalf("expected PANIC code, got %v", err)
	}
	appErr, _ := AsAppError(err)
	if appErr.Details["value"] != "kaboom" {
		t.Errorf("expected panic value in details, got %v", appErr.Details["value"])
	}
	if appErr.Details["stack"] == "" {
		t.Error("expected stack in details")
	}

	cause := stderrors.New("wrapped")
	if !stderrors.Is(FromPanic(cause), cause) {
		t.Error("expected panic error to be the cause")
	}
	if FromPanic(nil) != nil {
		t.Error("expected nil for nil panic value")
	}
}
