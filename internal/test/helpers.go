package test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/restic/get-all-xattrs/internal/errors"
)

// Assert fails the test if the condition is false.
func Assert(tb testing.TB, condition bool, msg string, v ...interface{}) {
	tb.Helper()
	if !condition {
		tb.Fatalf("\033[31m"+msg+"\033[39m\n\n", v...)
	}
}

// OK fails the test if an err is not nil.
func OK(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		tb.Fatalf("\033[31munexpected error: %+v\033[39m\n\n", err)
	}
}

// Equals fails the test if exp is not equal to act. Byte slices are compared
// by content, a nil slice equals an empty one.
func Equals(tb testing.TB, exp, act interface{}, opts ...cmp.Option) {
	tb.Helper()
	if diff := cmp.Diff(exp, act, opts...); diff != "" {
		tb.Fatalf("\033[31m(-exp +got):\n%s\033[39m\n\n", diff)
	}
}

// Error fails the test if err is nil or does not match target.
func Error(tb testing.TB, err, target error) {
	tb.Helper()
	if err == nil {
		tb.Fatalf("\033[31mexpected error %v, got nil\033[39m\n\n", target)
	}
	if target != nil && !errors.Is(err, target) {
		tb.Fatalf("\033[31mexpected error %v, got %+v\033[39m\n\n", target, err)
	}
}

// RemoveAll removes path, ignoring paths which do not exist.
func RemoveAll(t testing.TB, path string) {
	t.Helper()
	err := os.RemoveAll(path)
	if errors.Is(err, os.ErrNotExist) {
		err = nil
	}
	OK(t, err)
}

// TempDir returns a temporary directory that is removed by t.Cleanup,
// except if TestCleanupTempDirs is set to false.
func TempDir(t testing.TB) string {
	t.Helper()
	tempdir, err := os.MkdirTemp(TestTempDir, "get-all-xattrs-test-")
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if !TestCleanupTempDirs {
			t.Logf("leaving temporary directory %v used for test", tempdir)
			return
		}

		RemoveAll(t, tempdir)
	})
	return tempdir
}

// WriteFile creates a file with the given content in dir and returns its path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	OK(t, os.WriteFile(p, data, 0o600))
	return p
}
