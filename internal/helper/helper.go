// Package helper runs get-all-xattrs for a process that lacks CAP_SYS_ADMIN
// and decodes the attributes it reports.
package helper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/restic/get-all-xattrs/internal/capability"
	"github.com/restic/get-all-xattrs/internal/debug"
	"github.com/restic/get-all-xattrs/internal/errors"
	"github.com/restic/get-all-xattrs/internal/feature"
	"github.com/restic/get-all-xattrs/internal/xattrdump"
)

// DefaultPath is the name of the helper binary, looked up in $PATH.
const DefaultPath = "get-all-xattrs"

// Options configure how the helper is started.
type Options struct {
	// Path of the helper binary, DefaultPath if empty.
	Path string
	// Env is added to the environment of the helper.
	Env []string
	// TerminateEmptyValues asks the helper to end every attribute line
	// with a newline, which makes empty values unambiguous.
	TerminateEmptyValues bool
}

// Client talks to a running helper process. It is not safe for concurrent
// use, paths are processed strictly one after another.
type Client struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	records *xattrdump.RecordReader
	stderr  *bytes.Buffer
	err     error
}

// NeedsHelper reports whether the current process lacks CAP_SYS_ADMIN in its
// permitted set, so that trusted attributes can only be read via the helper.
func NeedsHelper(b capability.Backend) (bool, error) {
	ok, err := capability.HasPermitted(b, capability.Target)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// Start runs the helper. The process is killed when ctx is cancelled.
func Start(ctx context.Context, opts Options) (*Client, error) {
	path := opts.Path
	if path == "" {
		path = DefaultPath
	}

	var args []string
	if opts.TerminateEmptyValues {
		args = append(args, "--features", string(feature.TerminateEmptyValues))
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Env = append(os.Environ(), opts.Env...)
	// the helper reads its feature flags from the command line only
	cmd.Env = append(cmd.Env, feature.EnvName+"=")

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "StdinPipe")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "StdoutPipe")
	}

	debug.Log("starting %v %v", path, args)
	if err := cmd.Start(); err != nil {
		return nil, errors.Fatalf("unable to start %v: %v. Ensure that the helper is installed and "+
			"that $PATH contains absolute directories, '~' is not expanded", path, err)
	}

	return &Client{
		cmd:     cmd,
		stdin:   stdin,
		records: xattrdump.NewRecordReader(stdout, xattrdump.Options{TerminateEmptyValues: opts.TerminateEmptyValues}),
		stderr:  stderr,
	}, nil
}

// Get returns all extended attributes of path, in the order the kernel
// reported them. Symbolic links are not followed. After an error the helper
// is gone and all further calls return the same error.
func (c *Client) Get(path string) ([]xattrdump.Attribute, error) {
	if c.err != nil {
		return nil, c.err
	}
	if strings.IndexByte(path, 0) >= 0 {
		return nil, errors.Errorf("path %q contains a NUL byte", path)
	}

	if _, err := io.WriteString(c.stdin, path+"\x00"); err != nil {
		return nil, c.fail(err)
	}

	attrs, err := c.records.Next()
	if err != nil {
		return nil, c.fail(err)
	}
	return attrs, nil
}

// ExitError is returned once the helper stopped unexpectedly.
type ExitError struct {
	// Err revealed that the helper is gone, e.g. io.ErrUnexpectedEOF.
	Err error
	// Wait is the result of waiting for the process, nil for exit status 0.
	Wait error
	// Stderr holds the diagnostic written by the helper.
	Stderr string
}

func (e *ExitError) Error() string {
	status := "exit status 0"
	if e.Wait != nil {
		status = e.Wait.Error()
	}

	msg := fmt.Sprintf("unexpected exit of `%v` with '%v' (%v)", DefaultPath, status, e.Err)
	if e.Stderr != "" {
		msg += ":\n" + e.Stderr
	}
	return msg
}

func (e *ExitError) Unwrap() []error {
	if e.Wait == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Wait}
}

// fail waits for the helper to exit and records why it stopped.
func (c *Client) fail(err error) error {
	_ = c.stdin.Close()
	waitErr := c.cmd.Wait()
	debug.Log("helper failed: %v, exit: %v", err, waitErr)

	c.err = errors.WithStack(&ExitError{
		Err:    err,
		Wait:   waitErr,
		Stderr: strings.TrimSpace(c.stderr.String()),
	})
	return c.err
}

// Close ends the input of the helper and waits for it to exit.
func (c *Client) Close() error {
	if c.err != nil {
		return nil
	}
	c.err = errors.New("helper closed")

	if err := c.stdin.Close(); err != nil {
		return errors.Wrap(err, "Close")
	}
	return errors.Wrap(c.cmd.Wait(), "Wait")
}
