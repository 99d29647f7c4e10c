package errors

import (
	"errors"
	"fmt"
)

// fatalError is an error that is printed to stderr, after which the helper
// exits with a non-zero status. A hint tells the operator how to fix the
// underlying condition.
type fatalError struct {
	msg  string
	hint string
	err  error // Underlying error
}

func (e *fatalError) Error() string {
	return e.msg
}

func (e *fatalError) Unwrap() error {
	return e.err
}

// IsFatal returns true if err is a fatal message that should be printed to the
// user. Then, the program should exit.
func IsFatal(err error) bool {
	var fatal *fatalError
	return errors.As(err, &fatal)
}

// Fatal returns an error that is marked fatal.
func Fatal(s string) error {
	return Wrap(&fatalError{msg: s}, "Fatal")
}

// Fatalf returns an error that is marked fatal, preserving an underlying error if passed.
func Fatalf(s string, data ...interface{}) error {
	// Use the last error found.
	var underlyingErr error
	for i := len(data) - 1; i >= 0; i-- {
		if err, ok := data[i].(error); ok {
			underlyingErr = err
			break
		}
	}

	fatal := &fatalError{
		msg: fmt.Sprintf(s, data...),
		err: underlyingErr,
	}

	return Wrap(fatal, "Fatal")
}

// WithHint attaches a remediation hint to err. If err is not already fatal,
// it is turned into a fatal error using its message.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}

	var fatal *fatalError
	if errors.As(err, &fatal) {
		fatal.hint = hint
		return err
	}

	return Wrap(&fatalError{msg: err.Error(), hint: hint, err: err}, "Fatal")
}

// Hint returns the remediation hint attached to err, or the empty string.
func Hint(err error) string {
	var fatal *fatalError
	if errors.As(err, &fatal) {
		return fatal.hint
	}
	return ""
}
