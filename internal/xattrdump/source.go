package xattrdump

import (
	"fmt"

	"github.com/restic/get-all-xattrs/internal/errors"
)

// Source issues the extended attribute syscalls for a path without following
// symbolic links. Both methods follow the kernel convention: with an empty
// dest they return the size needed, otherwise they fill dest and return the
// number of bytes written.
type Source interface {
	// Listxattr lists the NUL-terminated attribute names of path.
	Listxattr(path string, dest []byte) (int, error)
	// Getxattr reads the value of attribute name of path.
	Getxattr(path, name string, dest []byte) (int, error)
}

var (
	// ErrEnumerate marks failures of the attribute list syscall.
	ErrEnumerate = errors.New("unable to list extended attributes")
	// ErrFetch marks failures of the attribute value syscall.
	ErrFetch = errors.New("unable to read extended attribute")
	// ErrResource marks sizes for which no buffer can be allocated.
	ErrResource = errors.New("unable to allocate buffer")
	// ErrUnsupported is returned by the Source on platforms without xattr
	// support.
	ErrUnsupported = errors.New("extended attributes are not supported on this platform")
)

// MaxBufferSize is the largest name list or value the dumper allocates a
// buffer for. The kernel limits both to 64KiB.
const MaxBufferSize = 16 << 20

func alloc(size int) ([]byte, error) {
	if size < 0 || size > MaxBufferSize {
		return nil, errors.WithStack(fmt.Errorf("%w: size %d out of range", ErrResource, size))
	}
	return make([]byte, size), nil
}
