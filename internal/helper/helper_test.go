package helper_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"kernel.org/pub/linux/libs/security/libcap/cap"

	"github.com/restic/get-all-xattrs/internal/capability"
	"github.com/restic/get-all-xattrs/internal/errors"
	"github.com/restic/get-all-xattrs/internal/helper"
	rtest "github.com/restic/get-all-xattrs/internal/test"
	"github.com/restic/get-all-xattrs/internal/xattrdump"
)

const fakeHelperEnv = "XATTR_HELPER_TEST_FAKE_HELPER"

var fakeFiles = map[string][][2]string{
	"/a":     {{"user.a", "1"}, {"trusted.t", "secret"}},
	"/empty": {},
	"/e":     {{"user.e", ""}},
}

type fakeSource struct{}

func (fakeSource) Listxattr(path string, dest []byte) (int, error) {
	attrs, ok := fakeFiles[path]
	if !ok {
		return -1, syscall.ENOENT
	}
	var buf []byte
	for _, a := range attrs {
		buf = append(buf, a[0]...)
		buf = append(buf, 0)
	}
	if len(dest) == 0 {
		return len(buf), nil
	}
	return copy(dest, buf), nil
}

func (fakeSource) Getxattr(path, name string, dest []byte) (int, error) {
	for _, a := range fakeFiles[path] {
		if a[0] == name {
			if len(dest) == 0 {
				return len(a[1]), nil
			}
			return copy(dest, a[1]), nil
		}
	}
	return -1, syscall.ENODATA
}

// runFakeHelper speaks the helper protocol on stdin/stdout, serving
// fakeFiles. The mode is taken from the environment variable.
func runFakeHelper(mode string) int {
	if mode == "deny" {
		fmt.Fprintln(os.Stderr, "Fatal: cap_set_proc: operation not permitted")
		return 10
	}

	opts := xattrdump.Options{}
	for _, arg := range os.Args[1:] {
		if arg == "terminate-empty-values" {
			opts.TerminateEmptyValues = true
		}
	}

	d, err := xattrdump.New(capability.NewTestElevated(), fakeSource{}, os.Stdout, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	paths := xattrdump.NewPathReader(os.Stdin)
	for {
		p, err := paths.Next()
		if err == io.EOF {
			return 0
		}
		if err == nil {
			err = d.Dump(p)
		}
		if err != nil {
			_ = d.Flush()
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
}

func TestMain(m *testing.M) {
	if mode := os.Getenv(fakeHelperEnv); mode != "" {
		os.Exit(runFakeHelper(mode))
	}
	os.Exit(m.Run())
}

func startFake(t *testing.T, mode string, terminate bool) *helper.Client {
	t.Helper()
	c, err := helper.Start(context.TODO(), helper.Options{
		Path:                 os.Args[0],
		Env:                  []string{fakeHelperEnv + "=" + mode},
		TerminateEmptyValues: terminate,
	})
	rtest.OK(t, err)
	return c
}

func attr(name, value string) xattrdump.Attribute {
	return xattrdump.Attribute{Name: []byte(name), Value: []byte(value)}
}

func TestClient(t *testing.T) {
	c := startFake(t, "serve", true)

	for _, test := range []struct {
		path  string
		attrs []xattrdump.Attribute
	}{
		{"/a", []xattrdump.Attribute{attr("user.a", "1"), attr("trusted.t", "secret")}},
		{"/empty", nil},
		{"/e", []xattrdump.Attribute{attr("user.e", "")}},
		{"/a", []xattrdump.Attribute{attr("user.a", "1"), attr("trusted.t", "secret")}},
	} {
		attrs, err := c.Get(test.path)
		rtest.OK(t, err)
		rtest.Equals(t, test.attrs, attrs, cmpopts.EquateEmpty())
	}

	rtest.OK(t, c.Close())
}

func TestClientCompatFraming(t *testing.T) {
	c := startFake(t, "serve", false)

	// an empty value right before the separator is still recovered
	attrs, err := c.Get("/e")
	rtest.OK(t, err)
	rtest.Equals(t, []xattrdump.Attribute{attr("user.e", "")}, attrs, cmpopts.EquateEmpty())

	rtest.OK(t, c.Close())
}

func TestClientHelperFails(t *testing.T) {
	c := startFake(t, "serve", true)

	_, err := c.Get("/missing")
	var exitErr *helper.ExitError
	rtest.Assert(t, errors.As(err, &exitErr), "expected *helper.ExitError, got %v", err)
	rtest.Assert(t, exitErr.Wait != nil, "expected non-zero exit status")
	rtest.Assert(t, strings.Contains(exitErr.Stderr, "llistxattr /missing"), "unexpected stderr %q", exitErr.Stderr)

	// the client stays failed
	_, err2 := c.Get("/a")
	rtest.Equals(t, err.Error(), err2.Error())
	rtest.OK(t, c.Close())
}

func TestClientElevationDenied(t *testing.T) {
	c := startFake(t, "deny", false)

	_, err := c.Get("/a")
	var exitErr *helper.ExitError
	rtest.Assert(t, errors.As(err, &exitErr), "expected *helper.ExitError, got %v", err)
	rtest.Assert(t, strings.Contains(err.Error(), "exit status 10"), "unexpected error %v", err)
	rtest.Assert(t, strings.Contains(exitErr.Stderr, "cap_set_proc"), "unexpected stderr %q", exitErr.Stderr)
}

func TestClientRejectsNul(t *testing.T) {
	c := startFake(t, "serve", true)
	defer func() { rtest.OK(t, c.Close()) }()

	_, err := c.Get("/a\x00/b")
	rtest.Assert(t, err != nil, "expected error for path with NUL byte")

	// the client is still usable
	_, err = c.Get("/empty")
	rtest.OK(t, err)
}

func TestStartMissingBinary(t *testing.T) {
	_, err := helper.Start(context.TODO(), helper.Options{Path: "/nonexistent/get-all-xattrs"})
	rtest.Assert(t, errors.IsFatal(err), "expected fatal error, got %v", err)
}

func TestNeedsHelper(t *testing.T) {
	needs, err := helper.NeedsHelper(&capability.TestBackend{})
	rtest.OK(t, err)
	rtest.Assert(t, needs, "expected helper to be needed without permitted capability")

	needs, err = helper.NeedsHelper(&capability.TestBackend{
		Current: capability.State{Permitted: capability.Mask(0).With(cap.SYS_ADMIN)},
	})
	rtest.OK(t, err)
	rtest.Assert(t, !needs, "expected no helper with permitted capability")
}
