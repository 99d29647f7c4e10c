package errors_test

import (
	"testing"

	"github.com/restic/get-all-xattrs/internal/errors"
)

func TestFatal(t *testing.T) {
	for _, v := range []struct {
		err      error
		expected bool
	}{
		{errors.Fatal("broken"), true},
		{errors.Fatalf("broken %d", 42), true},
		{errors.WithHint(errors.New("error"), "try again"), true},
		{errors.New("error"), false},
	} {
		if errors.IsFatal(v.err) != v.expected {
			t.Fatalf("IsFatal for %q, expected: %v, got: %v", v.err, v.expected, errors.IsFatal(v.err))
		}
	}
}

func TestFatalErrorWrapping(t *testing.T) {
	underlying := errors.New("underlying error")
	fatal := errors.Fatalf("fatal error: %v", underlying)

	if fatal.Error() != "Fatal: fatal error: underlying error" {
		t.Errorf("unexpected error message: %v", fatal.Error())
	}

	if !errors.Is(fatal, underlying) {
		t.Error("fatal error should wrap the underlying error")
	}
}

func TestHint(t *testing.T) {
	underlying := errors.New("operation not permitted")

	err := errors.WithHint(errors.Fatalf("commit failed: %v", underlying), "run with sudo")
	if errors.Hint(err) != "run with sudo" {
		t.Errorf("unexpected hint %q", errors.Hint(err))
	}
	if !errors.Is(err, underlying) {
		t.Error("hinted error should still wrap the underlying error")
	}

	plain := errors.WithHint(underlying, "run with sudo")
	if plain.Error() != "Fatal: operation not permitted" {
		t.Errorf("unexpected error message: %v", plain.Error())
	}
	if errors.Hint(underlying) != "" {
		t.Error("plain error should not carry a hint")
	}
	if errors.WithHint(nil, "x") != nil {
		t.Error("WithHint(nil) should return nil")
	}
}
