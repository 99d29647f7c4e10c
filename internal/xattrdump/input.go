package xattrdump

import (
	"bufio"
	"io"

	"github.com/restic/get-all-xattrs/internal/errors"
)

// PathReader splits an input stream into NUL-terminated paths. The last path
// does not need a terminating NUL.
type PathReader struct {
	rd *bufio.Reader
}

// NewPathReader returns a PathReader reading from rd.
func NewPathReader(rd io.Reader) *PathReader {
	return &PathReader{rd: bufio.NewReader(rd)}
}

// Next returns the next path. At the end of the input it returns io.EOF.
// Empty paths between two NUL bytes are returned as-is.
func (r *PathReader) Next() (string, error) {
	line, err := r.rd.ReadBytes(0)
	switch {
	case err == nil:
		return string(line[:len(line)-1]), nil
	case err == io.EOF && len(line) > 0:
		return string(line), nil
	case err == io.EOF:
		return "", io.EOF
	default:
		return "", errors.Wrap(err, "read path")
	}
}
