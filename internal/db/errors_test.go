package db

import (
	"context"
	"errors"
	"testing"
)

func TestError_WrapsOp(t *testing.T) {
	err := &Error{Op: OpHSet, Err: context.DeadlineExceeded}
	if err.Error() != "HSET: context deadline exceeded" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected Unwrap to expose the cause")
	}
	var dbErr *Error
	if !errors.As(error(err), &dbErr) || dbErr.Op != OpHSet {
		t.Errorf("expected errors.As to find db.Error, got %v", dbErr)
	}
}
