package xattrdump

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"syscall"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/xattr"

	"github.com/restic/get-all-xattrs/internal/capability"
	"github.com/restic/get-all-xattrs/internal/debug"
	"github.com/restic/get-all-xattrs/internal/errors"
)

// maxAttempts bounds the size query and fetch pairs per list or value when
// size changes are retried.
const maxAttempts = 3

// Options change the behavior of the Dumper.
type Options struct {
	// TerminateEmptyValues ends the line of an attribute with an empty
	// value with a newline. By default no newline is written.
	TerminateEmptyValues bool
	// RetrySizeChanges repeats the size query and fetch if the fetch fails
	// with ERANGE because the list or value grew in between.
	RetrySizeChanges bool
}

// Dumper writes the extended attributes of paths to an output stream. It is
// not safe for concurrent use.
type Dumper struct {
	src  Source
	out  *bufio.Writer
	opts Options
	enc  encoder
}

// New returns a Dumper that reads attributes from src and writes records to
// w. It needs proof that the capability to read all namespaces was raised.
func New(elevated *capability.Elevated, src Source, w io.Writer, opts Options) (*Dumper, error) {
	if elevated == nil {
		return nil, errors.New("capabilities have not been raised")
	}
	debug.Log("new dumper, %v, options %+v", elevated, opts)

	return &Dumper{
		src:  src,
		out:  bufio.NewWriter(w),
		opts: opts,
	}, nil
}

func listErr(path string, err error) error {
	return errors.WithStack(fmt.Errorf("%w: %w", ErrEnumerate, &xattr.Error{
		Op:   "llistxattr",
		Path: path,
		Err:  err,
	}))
}

func getErr(path, name string, err error) error {
	return errors.WithStack(fmt.Errorf("%w: %w", ErrFetch, &xattr.Error{
		Op:   "lgetxattr",
		Path: path,
		Name: name,
		Err:  err,
	}))
}

// policy bounds the size query and fetch pairs of a single list or value.
func (d *Dumper) policy() backoff.BackOff {
	var retries uint64
	if d.opts.RetrySizeChanges {
		retries = maxAttempts - 1
	}
	return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, retries)
}

// queryFetch calls fn with an empty buffer to learn the size, then again with
// a buffer of that size. The result is nil if the size query reported zero,
// and is cut to the fetched length if the data shrunk in between. If it grew,
// the fetch fails with ERANGE and the pair is repeated according to policy.
func (d *Dumper) queryFetch(what string, fn func(dest []byte) (int, error), wrap func(error) error) ([]byte, error) {
	var data []byte
	err := backoff.Retry(func() error {
		size, err := fn(nil)
		debug.Log("%v size %v, err %v", what, size, err)
		if err != nil {
			return backoff.Permanent(wrap(err))
		}
		if size == 0 {
			data = nil
			return nil
		}

		buf, err := alloc(size)
		if err != nil {
			return backoff.Permanent(err)
		}

		n, err := fn(buf)
		debug.Log("%v filled %v/%v bytes, err %v", what, n, size, err)
		if errors.Is(err, syscall.ERANGE) {
			return wrap(err)
		}
		if err != nil {
			return backoff.Permanent(wrap(err))
		}

		data = buf[:n]
		return nil
	}, d.policy())

	return data, err
}

// names returns the NUL-terminated attribute names of path, or nil if path
// has no attributes.
func (d *Dumper) names(path string) ([]byte, error) {
	return d.queryFetch(fmt.Sprintf("llistxattr(%q)", path),
		func(dest []byte) (int, error) {
			return d.src.Listxattr(path, dest)
		},
		func(err error) error {
			return listErr(path, err)
		})
}

// value returns the value of attribute name. The bool is true if the size
// query reported an empty value, in which case no fetch is done.
func (d *Dumper) value(path, name string) ([]byte, bool, error) {
	val, err := d.queryFetch(fmt.Sprintf("lgetxattr(%q, %q)", path, name),
		func(dest []byte) (int, error) {
			return d.src.Getxattr(path, name, dest)
		},
		func(err error) error {
			return getErr(path, name, err)
		})
	if err != nil {
		return nil, false, err
	}
	return val, val == nil, nil
}

// Dump writes the record for path. Every error is fatal, output written
// before the error is not retracted.
func (d *Dumper) Dump(path string) error {
	list, err := d.names(path)
	if err != nil {
		return err
	}

	for len(list) > 0 {
		name := list
		if i := bytes.IndexByte(list, 0); i >= 0 {
			name, list = list[:i], list[i+1:]
		} else {
			list = nil
		}

		if err := d.writeAttr(path, name); err != nil {
			return err
		}
	}

	if _, err := d.out.WriteString(Separator + "\n"); err != nil {
		return errors.Wrap(err, "write")
	}
	return errors.Wrap(d.out.Flush(), "flush")
}

// Flush writes buffered output to the underlying writer.
func (d *Dumper) Flush() error {
	return errors.Wrap(d.out.Flush(), "flush")
}

func (d *Dumper) writeAttr(path string, name []byte) error {
	if err := d.enc.writeHex(d.out, name); err != nil {
		return errors.Wrap(err, "write")
	}

	val, empty, err := d.value(path, string(name))
	if err != nil {
		return err
	}

	if empty {
		if d.opts.TerminateEmptyValues {
			return errors.Wrap(d.out.WriteByte('\n'), "write")
		}
		return nil
	}

	if err := d.out.WriteByte(' '); err != nil {
		return errors.Wrap(err, "write")
	}
	if err := d.enc.writeHex(d.out, val); err != nil {
		return errors.Wrap(err, "write")
	}
	if err := d.out.WriteByte('\n'); err != nil {
		return errors.Wrap(err, "write")
	}

	// consumers read line by line
	return errors.Wrap(d.out.Flush(), "flush")
}
